package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrStepOutOfOrder is returned when an event does not belong to the current step.
	ErrStepOutOfOrder = errors.New("checkout step out of order")
	// ErrEmptyCart blocks payment when there is nothing to pay for.
	ErrEmptyCart = errors.New("cart is empty")
)

// FieldErrors maps a form field (its JSON name) to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

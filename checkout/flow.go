// Package checkout implements the three-step checkout flow
// (shipping -> payment -> confirmation) as an immutable value.
//
// Each transition returns the next Flow and never modifies the receiver, so
// the caller decides when a new state becomes the authoritative one.
package checkout

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/pricing"
)

// Step is a checkout state.
type Step string

const (
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// Steps lists the states in their only allowed order.
var Steps = []Step{StepShipping, StepPayment, StepConfirmation}

// Index is the step's position in Steps, or -1.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Flow is the checkout state owned by a session.
type Flow struct {
	Step     Step                `json:"step"`
	Shipping models.ShippingInfo `json:"shipping"`
	Payment  models.PaymentInfo  `json:"payment"`

	// Set once the payment step succeeds.
	Order  *models.Order  `json:"order,omitempty"`
	Cart   models.Cart    `json:"cart,omitempty"`
	Totals *models.Totals `json:"totals,omitempty"`
}

// New returns a flow on the shipping step with blank forms.
func New() Flow {
	return Flow{
		Step: StepShipping,
		Shipping: models.ShippingInfo{
			Country:        models.DefaultCountry,
			ShippingMethod: models.ShippingStandard,
		},
	}
}

// Confirmed reports whether the flow reached its terminal step.
func (f Flow) Confirmed() bool {
	return f.Step == StepConfirmation
}

// SubmitShipping validates info and, when it passes, moves to the payment step.
func (f Flow) SubmitShipping(info models.ShippingInfo) (Flow, FieldErrors, error) {
	if f.Step != StepShipping {
		return f, nil, ErrStepOutOfOrder
	}

	if info.ShippingMethod == "" {
		info.ShippingMethod = models.ShippingStandard
	}
	if strings.TrimSpace(info.Country) == "" {
		info.Country = models.DefaultCountry
	}

	if errs := ValidateShipping(info); !errs.OK() {
		return f, errs, nil
	}

	next := f
	next.Shipping = info
	next.Step = StepPayment
	return next, nil, nil
}

// NormalizePayment applies the payment form's input masks.
func NormalizePayment(info models.PaymentInfo) models.PaymentInfo {
	info.CardNumber = FormatCardNumber(info.CardNumber)
	info.ExpiryDate = FormatExpiry(info.ExpiryDate)
	info.CVV = FormatCVV(info.CVV)
	return info
}

// SubmitPayment validates info against now and, when it passes, creates the
// order and freezes c and its totals into the confirmation step.
func (f Flow) SubmitPayment(info models.PaymentInfo, c models.Cart, now time.Time) (Flow, FieldErrors, error) {
	if f.Step != StepPayment {
		return f, nil, ErrStepOutOfOrder
	}
	if len(c) == 0 {
		return f, nil, ErrEmptyCart
	}

	info = NormalizePayment(info)
	if errs := ValidatePayment(info, now); !errs.OK() {
		return f, errs, nil
	}

	order := NewOrder(now, f.Shipping.ShippingMethod)
	totals := pricing.Checkout(c, f.Shipping.ShippingMethod)

	next := f
	next.Payment = info.Redacted()
	next.Order = &order
	next.Cart = c.Clone()
	next.Totals = &totals
	next.Step = StepConfirmation
	return next, nil, nil
}

// Back returns from the payment step to the shipping step without re-validating.
func (f Flow) Back() (Flow, error) {
	if f.Step != StepPayment {
		return f, ErrStepOutOfOrder
	}
	next := f
	next.Step = StepShipping
	return next, nil
}

// Finish leaves the confirmation step and starts over.
func (f Flow) Finish() (Flow, error) {
	if f.Step != StepConfirmation {
		return f, ErrStepOutOfOrder
	}
	return New(), nil
}

// Summary prices the order summary panel. Once confirmed it shows the frozen
// totals; before that it prices c with the selected shipping method.
func (f Flow) Summary(c models.Cart) models.Totals {
	if f.Confirmed() && f.Totals != nil {
		return *f.Totals
	}
	return pricing.Checkout(c, f.Shipping.ShippingMethod)
}

// DeliveryDays is the delivery estimate, in days after the order date, for a
// shipping method.
func DeliveryDays(method models.ShippingMethod) int {
	if method == models.ShippingExpress {
		return 2
	}
	return 5
}

// NewOrder derives a short order id from the millisecond clock. It is unique
// enough within a session, not globally.
func NewOrder(now time.Time, method models.ShippingMethod) models.Order {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	placed := now.UTC()
	return models.Order{
		OrderID:           "ORD-" + ms,
		OrderDate:         placed,
		EstimatedDelivery: placed.AddDate(0, 0, DeliveryDays(method)),
	}
}

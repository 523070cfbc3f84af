package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shopswift/storefront/models"
)

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

	validate = newValidator()
)

var fieldLabels = map[string]string{
	"first_name":  "First name",
	"last_name":   "Last name",
	"email":       "Email",
	"phone":       "Phone",
	"address":     "Address",
	"city":        "City",
	"state":       "State",
	"postal_code": "Postal code",
	"card_name":   "Cardholder name",
	"card_number": "Card number",
	"expiry_date": "Expiry date",
	"cvv":         "CVV",
}

var tagMessages = map[string]string{
	"loose_email":   "Invalid email address",
	"oneof":         "Unsupported shipping method",
	"card_number":   "Invalid card number",
	"expiry_format": "Invalid format (MM/YY)",
	"cvv":           "Invalid CVV",
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name so errors line up with the form payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		return len(digitsOnly(fl.Field().String())) == 16
	}))
	must(v.RegisterValidation("expiry_format", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("cvv", func(fl validator.FieldLevel) bool {
		n := len(fl.Field().String())
		return n >= 3 && n <= 4 && digitsOnly(fl.Field().String()) == fl.Field().String()
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateShipping checks the shipping form. A nil/empty result means valid.
func ValidateShipping(info models.ShippingInfo) FieldErrors {
	return collect(validate.Struct(info))
}

// ValidatePayment checks the payment form, including that the card has not
// expired before the calendar month of now.
func ValidatePayment(info models.PaymentInfo, now time.Time) FieldErrors {
	errs := collect(validate.Struct(info))
	if _, bad := errs["expiry_date"]; bad {
		return errs
	}

	month, year := splitExpiry(info.ExpiryDate)
	switch {
	case month < 1 || month > 12:
		errs["expiry_date"] = "Invalid month"
	case expired(month, year, now):
		errs["expiry_date"] = "Card has expired"
	}
	return errs
}

func collect(err error) FieldErrors {
	errs := FieldErrors{}
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	if fe.Tag() == "notblank" || fe.Tag() == "required" {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		return label + " is required"
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "Invalid value"
}

// splitExpiry parses a validated MM/YY string.
func splitExpiry(expiry string) (month, year int) {
	parts := strings.SplitN(expiry, "/", 2)
	month, _ = strconv.Atoi(parts[0])
	year, _ = strconv.Atoi(parts[1])
	return month, year
}

// expired compares against the two-digit year, so a card is valid through
// the last day of its expiry month.
func expired(month, year int, now time.Time) bool {
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	return year < curYear || (year == curYear && month < curMonth)
}

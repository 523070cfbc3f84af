package models

import "time"

// ShippingMethod selects the checkout shipping rate.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// DefaultCountry pre-fills the shipping form.
const DefaultCountry = "Spain"

// ShippingInfo is the payload of the shipping step.
type ShippingInfo struct {
	FirstName      string         `json:"first_name" validate:"notblank"`
	LastName       string         `json:"last_name" validate:"notblank"`
	Email          string         `json:"email" validate:"notblank,loose_email"`
	Phone          string         `json:"phone" validate:"notblank"`
	Address        string         `json:"address" validate:"notblank"`
	City           string         `json:"city" validate:"notblank"`
	State          string         `json:"state" validate:"notblank"`
	PostalCode     string         `json:"postal_code" validate:"notblank"`
	Country        string         `json:"country"`
	ShippingMethod ShippingMethod `json:"shipping_method" validate:"omitempty,oneof=standard express"`
}

// PaymentInfo is the payload of the payment step. CardNumber is kept in its
// display form (groups of four digits).
type PaymentInfo struct {
	CardName   string `json:"card_name" validate:"notblank"`
	CardNumber string `json:"card_number" validate:"notblank,card_number"`
	ExpiryDate string `json:"expiry_date" validate:"notblank,expiry_format"`
	CVV        string `json:"cvv" validate:"notblank,cvv"`
	SaveCard   bool   `json:"save_card"`
}

// Order is created once the payment step validates.
type Order struct {
	OrderID           string    `json:"order_id"`
	OrderDate         time.Time `json:"order_date"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

// Redacted keeps only what a confirmation page may show: the cardholder name
// and the last four digits of the card.
func (p PaymentInfo) Redacted() PaymentInfo {
	digits := make([]byte, 0, len(p.CardNumber))
	for i := 0; i < len(p.CardNumber); i++ {
		if c := p.CardNumber[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	last4 := string(digits)
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return PaymentInfo{
		CardName:   p.CardName,
		CardNumber: "**** **** **** " + last4,
		ExpiryDate: p.ExpiryDate,
		SaveCard:   p.SaveCard,
	}
}

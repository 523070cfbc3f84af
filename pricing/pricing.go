// Package pricing derives cart totals. All arithmetic is fixed point; the
// only rounding happens in models.Totals.Rounded at display time.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shopswift/storefront/models"
)

var (
	// TaxRate is the flat VAT rate applied at checkout.
	TaxRate = decimal.RequireFromString("0.21")

	StandardShipping = decimal.RequireFromString("4.99")
	ExpressShipping  = decimal.RequireFromString("9.99")

	// PreviewShipping is the flat rate the cart panel shows for a non-empty cart.
	PreviewShipping = decimal.RequireFromString("9.99")
)

// Subtotal is the sum of price x quantity over all lines.
func Subtotal(c models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ShippingCost is the checkout rate for the selected method. Anything other
// than express is charged the standard rate.
func ShippingCost(method models.ShippingMethod) decimal.Decimal {
	if method == models.ShippingExpress {
		return ExpressShipping
	}
	return StandardShipping
}

// PreviewShippingCost is the cart panel's flat rate, charged only when there
// is something in the cart.
func PreviewShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(decimal.Zero) {
		return PreviewShipping
	}
	return decimal.Zero
}

// Tax applies TaxRate to subtotal.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// Checkout prices a cart for the checkout flow: subtotal + shipping + tax.
func Checkout(c models.Cart, method models.ShippingMethod) models.Totals {
	subtotal := Subtotal(c)
	shipping := ShippingCost(method)
	tax := Tax(subtotal)
	return models.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Preview prices a cart for the cart panel, which shows no tax line.
func Preview(c models.Cart) models.Totals {
	subtotal := Subtotal(c)
	shipping := PreviewShippingCost(subtotal)
	return models.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      decimal.Zero,
		Total:    subtotal.Add(shipping),
	}
}

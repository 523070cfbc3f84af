// Package cart holds the pure cart mutations. Every operation returns a new
// models.Cart and leaves its input untouched; unknown product ids are no-ops.
package cart

import "github.com/shopswift/storefront/models"

// Add appends p with variant v, or bumps the quantity of the line that
// already has the same (id, color, size) identity. A qty below 1 adds one.
func Add(c models.Cart, p models.Product, v models.Variant, qty int) models.Cart {
	if qty < 1 {
		qty = 1
	}

	out := c.Clone()
	for i := range out {
		if out[i].Matches(p.ID, v) {
			out[i].Quantity += qty
			return out
		}
	}

	return append(out, models.CartItem{Product: p, Variant: v, Quantity: qty})
}

// Remove drops every line whose product id is productID, whatever its variant.
func Remove(c models.Cart, productID string) models.Cart {
	out := make(models.Cart, 0, len(c))
	for _, item := range c {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

// UpdateQuantity sets the quantity of every line with productID. A quantity
// of zero or less removes those lines instead.
func UpdateQuantity(c models.Cart, productID string, qty int) models.Cart {
	if qty <= 0 {
		return Remove(c, productID)
	}

	out := c.Clone()
	for i := range out {
		if out[i].ID == productID {
			out[i].Quantity = qty
		}
	}
	return out
}

// ItemCount is the sum of all line quantities.
func ItemCount(c models.Cart) int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

// Contains reports whether any line carries productID.
func Contains(c models.Cart, productID string) bool {
	for _, item := range c {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Subtract takes the quantities in placed out of c, line by line on the
// (id, color, size) identity. Lines that drop to zero are removed; anything
// not in placed is kept as is.
func Subtract(c, placed models.Cart) models.Cart {
	out := make(models.Cart, 0, len(c))
	for _, item := range c {
		for _, p := range placed {
			if item.Matches(p.ID, p.Variant) {
				item.Quantity -= p.Quantity
			}
		}
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}

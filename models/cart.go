package models

// Variant is the optional color/size selection made when adding a product.
type Variant struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// CartItem is a product line in the cart. Quantity is always >= 1.
type CartItem struct {
	Product
	Variant
	Quantity int `json:"quantity"`
}

// Matches reports whether the item has the given (id, color, size) identity.
func (i CartItem) Matches(productID string, v Variant) bool {
	return i.ID == productID && i.Color == v.Color && i.Size == v.Size
}

// Cart is an ordered list of line items; insertion order is display order.
type Cart []CartItem

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

package services

import (
	"github.com/shopswift/storefront/cart"
	"github.com/shopswift/storefront/checkout"
	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/pricing"
)

// Shopper identifies whose session a call operates on.
type Shopper struct {
	SessionKey string
	UserID     string
}

// AddItemRequest is the body of an add-to-cart call. Color and size are
// limited to the variants the product page offers; xl is never in stock.
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"omitempty,oneof=default blue red"`
	Size      string `json:"size" binding:"omitempty,oneof=s m l"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateItemRequest is the body of a quantity change. Zero removes the item.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=99"`
}

// CartView is the cart panel: lines, badge count and preview totals.
type CartView struct {
	Items     models.Cart   `json:"items"`
	ItemCount int           `json:"item_count"`
	Totals    models.Totals `json:"totals"`
}

func newCartView(c models.Cart) *CartView {
	if c == nil {
		c = models.Cart{}
	}
	return &CartView{
		Items:     c,
		ItemCount: cart.ItemCount(c),
		Totals:    pricing.Preview(c).Rounded(),
	}
}

// CheckoutView carries the checkout page. Before confirmation Cart is the
// live cart; afterwards it is the snapshot taken at confirmation.
type CheckoutView struct {
	Step      checkout.Step       `json:"step"`
	StepIndex int                 `json:"step_index"`
	Shipping  models.ShippingInfo `json:"shipping"`
	Payment   models.PaymentInfo  `json:"payment"`
	Order     *models.Order       `json:"order,omitempty"`
	Cart      models.Cart         `json:"cart"`
	Totals    models.Totals       `json:"totals"`
}

func newCheckoutView(f checkout.Flow, live models.Cart) *CheckoutView {
	c := live
	if f.Confirmed() {
		c = f.Cart
	}
	if c == nil {
		c = models.Cart{}
	}

	v := &CheckoutView{
		Step:      f.Step,
		StepIndex: f.Step.Index(),
		Shipping:  f.Shipping,
		Order:     f.Order,
		Cart:      c,
		Totals:    f.Summary(live).Rounded(),
	}
	// Only the confirmation step may show payment details, already redacted.
	if f.Confirmed() {
		v.Payment = f.Payment
	}
	return v
}

// ProductDetail is a product page with its related products.
type ProductDetail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related"`
}

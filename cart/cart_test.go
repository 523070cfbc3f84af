package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopswift/storefront/cart"
	"github.com/shopswift/storefront/models"
)

func product(id string, price string) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "apparel",
		InStock:  true,
	}
}

func TestAdd_NewItem(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 0)

	require.Len(t, c, 1)
	assert.Equal(t, "1", c[0].ID)
	assert.Equal(t, 1, c[0].Quantity)
}

func TestAdd_SameVariantMerges(t *testing.T) {
	p := product("1", "20.00")
	v := models.Variant{Color: "blue", Size: "m"}

	c := cart.Add(cart.Add(models.Cart{}, p, v, 1), p, v, 1)

	require.Len(t, c, 1)
	assert.Equal(t, 2, c[0].Quantity)
}

func TestAdd_DifferentVariantIsSeparateLine(t *testing.T) {
	p := product("1", "20.00")

	c := cart.Add(models.Cart{}, p, models.Variant{Color: "blue", Size: "m"}, 1)
	c = cart.Add(c, p, models.Variant{Color: "red", Size: "m"}, 3)

	require.Len(t, c, 2)
	assert.Equal(t, "blue", c[0].Color)
	assert.Equal(t, "red", c[1].Color)
	assert.Equal(t, 3, c[1].Quantity)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	p := product("1", "20.00")
	original := cart.Add(models.Cart{}, p, models.Variant{}, 1)

	_ = cart.Add(original, p, models.Variant{}, 5)

	assert.Equal(t, 1, original[0].Quantity)
}

func TestRemove_RemovesAllVariantsOfProduct(t *testing.T) {
	p := product("1", "20.00")
	c := cart.Add(models.Cart{}, p, models.Variant{Color: "blue"}, 1)
	c = cart.Add(c, p, models.Variant{Color: "red"}, 1)
	c = cart.Add(c, product("2", "15.00"), models.Variant{}, 1)

	c = cart.Remove(c, "1")

	require.Len(t, c, 1)
	assert.Equal(t, "2", c[0].ID)
}

func TestRemove_Idempotent(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 1)
	c = cart.Add(c, product("2", "15.00"), models.Variant{}, 2)

	once := cart.Remove(c, "1")
	twice := cart.Remove(once, "1")

	assert.Equal(t, once, twice)
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 1)

	assert.Equal(t, c, cart.Remove(c, "missing"))
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 1)

	c = cart.UpdateQuantity(c, "1", 4)

	assert.Equal(t, 4, c[0].Quantity)
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 1)
	c = cart.Add(c, product("2", "15.00"), models.Variant{}, 2)

	assert.Equal(t, cart.Remove(c, "1"), cart.UpdateQuantity(c, "1", 0))
	assert.Equal(t, cart.Remove(c, "2"), cart.UpdateQuantity(c, "2", -3))
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 2)

	assert.Equal(t, c, cart.UpdateQuantity(c, "missing", 7))
}

func TestItemCount(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 1)
	c = cart.Add(c, product("2", "15.00"), models.Variant{}, 2)

	assert.Equal(t, 3, cart.ItemCount(c))
	assert.Equal(t, 0, cart.ItemCount(nil))
}

func TestSubtract_RemovesPlacedQuantities(t *testing.T) {
	placed := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{Color: "blue"}, 2)
	placed = cart.Add(placed, product("2", "15.00"), models.Variant{}, 1)

	live := cart.Add(placed, product("1", "20.00"), models.Variant{Color: "blue"}, 1)
	live = cart.Add(live, product("1", "20.00"), models.Variant{Color: "red"}, 1)

	got := cart.Subtract(live, placed)

	require.Len(t, got, 2)
	assert.Equal(t, "blue", got[0].Color)
	assert.Equal(t, 1, got[0].Quantity)
	assert.Equal(t, "red", got[1].Color)
	assert.Equal(t, 1, got[1].Quantity)
	assert.Len(t, live, 3, "input untouched")
}

func TestSubtract_EverythingPlaced(t *testing.T) {
	c := cart.Add(models.Cart{}, product("1", "20.00"), models.Variant{}, 2)

	assert.Empty(t, cart.Subtract(c, c))
	assert.Empty(t, cart.Subtract(nil, c))
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopswift/storefront/models"
)

// AllCategories matches every category.
const AllCategories = "all"

// DefaultMaxPrice is the top of the price slider.
var DefaultMaxPrice = decimal.NewFromInt(1000)

// Filter narrows the product grid.
type Filter struct {
	Query    string
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	InStock  bool
}

// DefaultFilter matches the whole catalog within the default price range.
func DefaultFilter() Filter {
	return Filter{MinPrice: decimal.Zero, MaxPrice: DefaultMaxPrice}
}

// Match reports whether p passes every criterion.
func (f Filter) Match(p models.Product) bool {
	if q := strings.TrimSpace(f.Query); q != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
		return false
	}
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if p.Price.LessThan(f.MinPrice) {
		return false
	}
	if !f.MaxPrice.IsZero() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	return true
}

// Apply keeps the products that match, in catalog order.
func (f Filter) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Related returns up to limit other products from p's category.
func Related(products []models.Product, p models.Product, limit int) []models.Product {
	out := []models.Product{}
	for _, candidate := range products {
		if len(out) >= limit {
			break
		}
		if candidate.Category == p.Category && candidate.ID != p.ID {
			out = append(out, candidate)
		}
	}
	return out
}

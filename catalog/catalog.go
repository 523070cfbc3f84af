// Package catalog serves the read-only product catalog and the storefront's
// product filters.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopswift/storefront/models"
)

//go:embed products.json
var seed []byte

// Catalog is the read-only source of products.
type Catalog interface {
	List(ctx context.Context) []models.Product
	Get(ctx context.Context, id string) (models.Product, bool)
	Categories(ctx context.Context) []string
}

// Static is an in-memory catalog loaded once at startup.
type Static struct {
	products []models.Product
	byID     map[string]int
}

// NewStatic builds a catalog from products, keeping their order.
func NewStatic(products []models.Product) (*Static, error) {
	s := &Static{
		products: make([]models.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(s.products, products)

	for i, p := range s.products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %s has a negative price", p.ID)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		s.byID[p.ID] = i
	}
	return s, nil
}

// Load reads the catalog from path, or from the embedded seed when path is empty.
func Load(path string) (*Static, error) {
	data := seed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewStatic(products)
}

func (s *Static) List(_ context.Context) []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Static) Get(_ context.Context, id string) (models.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// Categories returns the distinct categories, sorted.
func (s *Static) Categories(_ context.Context) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

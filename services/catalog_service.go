package services

import (
	"context"

	"github.com/shopswift/storefront/catalog"
	"github.com/shopswift/storefront/models"
)

const relatedLimit = 4

// CatalogService serves the read-only product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, filter catalog.Filter) []models.Product
	GetProduct(ctx context.Context, id string) (*ProductDetail, *ServiceError)
	Categories(ctx context.Context) []string
}

type catalogServiceImpl struct {
	catalog catalog.Catalog
}

func NewCatalogService(cat catalog.Catalog) CatalogService {
	return &catalogServiceImpl{catalog: cat}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, filter catalog.Filter) []models.Product {
	return filter.Apply(s.catalog.List(ctx))
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id string) (*ProductDetail, *ServiceError) {
	p, ok := s.catalog.Get(ctx, id)
	if !ok {
		return nil, errNotFound("Product not found")
	}
	return &ProductDetail{
		Product: p,
		Related: catalog.Related(s.catalog.List(ctx), p, relatedLimit),
	}, nil
}

func (s *catalogServiceImpl) Categories(ctx context.Context) []string {
	return s.catalog.Categories(ctx)
}

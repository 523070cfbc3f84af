package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopswift/storefront/catalog"
	"github.com/shopswift/storefront/services"
)

// ProductController serves the catalog.
type ProductController struct {
	catalog services.CatalogService
}

func NewProductController(svc services.CatalogService) *ProductController {
	return &ProductController{catalog: svc}
}

// ListProducts handles GET /products?q=&category=&minPrice=&maxPrice=&inStock=
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	filter, err := parseFilter(ctx)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	products := pc.catalog.ListProducts(ctx.Request.Context(), filter)
	ctx.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// GetProduct handles GET /products/:id
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	detail, svcErr := pc.catalog.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// Categories handles GET /categories
func (pc *ProductController) Categories(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"categories": pc.catalog.Categories(ctx.Request.Context())})
}

func parseFilter(ctx *gin.Context) (catalog.Filter, error) {
	f := catalog.DefaultFilter()
	f.Query = ctx.Query("q")
	f.Category = ctx.Query("category")

	if v := ctx.Query("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return f, fmt.Errorf("invalid minPrice %q", v)
		}
		f.MinPrice = d
	}
	if v := ctx.Query("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return f, fmt.Errorf("invalid maxPrice %q", v)
		}
		f.MaxPrice = d
	}
	if v := ctx.Query("inStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid inStock %q", v)
		}
		f.InStock = b
	}
	return f, nil
}

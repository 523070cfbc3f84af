package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopswift/storefront/services"
)

// CartController handles HTTP requests for the shopper's cart.
type CartController struct {
	storefront services.StorefrontService
}

func NewCartController(svc services.StorefrontService) *CartController {
	return &CartController{storefront: svc}
}

// GetCart handles GET /cart
func (cc *CartController) GetCart(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	view, svcErr := cc.storefront.GetCart(ctx.Request.Context(), who)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// AddItem handles POST /cart/items
func (cc *CartController) AddItem(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	var req services.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	view, svcErr := cc.storefront.AddItem(ctx.Request.Context(), who, req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// UpdateItem handles PATCH /cart/items/:product_id
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	var req services.UpdateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	view, svcErr := cc.storefront.UpdateItem(ctx.Request.Context(), who, ctx.Param("product_id"), *req.Quantity)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// RemoveItem handles DELETE /cart/items/:product_id
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	view, svcErr := cc.storefront.RemoveItem(ctx.Request.Context(), who, ctx.Param("product_id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// ClearCart handles DELETE /cart
func (cc *CartController) ClearCart(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	view, svcErr := cc.storefront.ClearCart(ctx.Request.Context(), who)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

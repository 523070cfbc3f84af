package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopswift/storefront/services"
)

// OrderController exposes the shopper's archived orders.
type OrderController struct {
	storefront services.StorefrontService
}

func NewOrderController(svc services.StorefrontService) *OrderController {
	return &OrderController{storefront: svc}
}

// ListOrders handles GET /orders
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	orders, svcErr := oc.storefront.ListOrders(ctx.Request.Context(), who)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder handles GET /orders/:order_id
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	order, svcErr := oc.storefront.GetOrder(ctx.Request.Context(), who, ctx.Param("order_id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

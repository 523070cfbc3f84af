package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/services"
)

// CheckoutController drives the three-step checkout.
type CheckoutController struct {
	storefront services.StorefrontService
}

func NewCheckoutController(svc services.StorefrontService) *CheckoutController {
	return &CheckoutController{storefront: svc}
}

// GetCheckout handles GET /checkout
func (cc *CheckoutController) GetCheckout(ctx *gin.Context) {
	cc.transition(ctx, cc.storefront.GetCheckout)
}

// SubmitShipping handles POST /checkout/shipping
func (cc *CheckoutController) SubmitShipping(ctx *gin.Context) {
	var info models.ShippingInfo
	if err := ctx.ShouldBindJSON(&info); err != nil {
		badRequest(ctx, err)
		return
	}
	cc.transition(ctx, func(c context.Context, who services.Shopper) (*services.CheckoutView, *services.ServiceError) {
		return cc.storefront.SubmitShipping(c, who, info)
	})
}

// SubmitPayment handles POST /checkout/payment
func (cc *CheckoutController) SubmitPayment(ctx *gin.Context) {
	var info models.PaymentInfo
	if err := ctx.ShouldBindJSON(&info); err != nil {
		badRequest(ctx, err)
		return
	}
	cc.transition(ctx, func(c context.Context, who services.Shopper) (*services.CheckoutView, *services.ServiceError) {
		return cc.storefront.SubmitPayment(c, who, info)
	})
}

// Back handles POST /checkout/back
func (cc *CheckoutController) Back(ctx *gin.Context) {
	cc.transition(ctx, cc.storefront.BackToShipping)
}

// Finish handles POST /checkout/finish
func (cc *CheckoutController) Finish(ctx *gin.Context) {
	cc.transition(ctx, cc.storefront.FinishCheckout)
}

func (cc *CheckoutController) transition(ctx *gin.Context, fn func(context.Context, services.Shopper) (*services.CheckoutView, *services.ServiceError)) {
	who, ok := shopperFrom(ctx)
	if !ok {
		return
	}
	view, svcErr := fn(ctx.Request.Context(), who)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

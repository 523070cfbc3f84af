package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shopswift/storefront/controllers"
)

// RegisterProductRoutes sets up the public catalog routes.
func RegisterProductRoutes(r *gin.Engine, pc *controllers.ProductController) {
	products := r.Group("/products")
	{
		products.GET("", pc.ListProducts)
		products.GET("/:id", pc.GetProduct)
	}
	r.GET("/categories", pc.Categories)
}

// RegisterCartRoutes sets up the session-scoped cart routes.
func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController, identity gin.HandlerFunc) {
	cart := r.Group("/cart")
	cart.Use(identity)
	{
		cart.GET("", cc.GetCart)
		cart.DELETE("", cc.ClearCart)
		cart.POST("/items", cc.AddItem)
		cart.PATCH("/items/:product_id", cc.UpdateItem)
		cart.DELETE("/items/:product_id", cc.RemoveItem)
	}
}

// RegisterCheckoutRoutes sets up the checkout step routes.
func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController, identity gin.HandlerFunc) {
	co := r.Group("/checkout")
	co.Use(identity)
	{
		co.GET("", cc.GetCheckout)
		co.POST("/shipping", cc.SubmitShipping)
		co.POST("/payment", cc.SubmitPayment)
		co.POST("/back", cc.Back)
		co.POST("/finish", cc.Finish)
	}
}

// RegisterOrderRoutes sets up the archived order routes.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController, identity gin.HandlerFunc) {
	orders := r.Group("/orders")
	orders.Use(identity)
	{
		orders.GET("", oc.ListOrders)
		orders.GET("/:order_id", oc.GetOrder)
	}
}

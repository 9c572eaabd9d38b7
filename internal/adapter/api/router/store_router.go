package router

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/adapter/api/middleware"
)

func setupStoreRoutes(v1 *echo.Group, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	// Public storefront
	v1.GET("/services", h.Service.ListServices)
	v1.GET("/services/:id", h.Service.GetService)
	v1.GET("/content", h.Content.ListBlocks)
	v1.GET("/content/:key", h.Content.GetBlock)

	// Authenticated shopper routes
	authed := v1.Group("", authMiddleware.Authenticate)
	authed.GET("/cart", h.Cart.GetCart)
	authed.POST("/cart/items", h.Cart.AddItem)
	authed.PATCH("/cart/items/:id", h.Cart.UpdateItem)
	authed.DELETE("/cart/items/:id", h.Cart.RemoveItem)

	authed.POST("/orders", h.Order.Checkout)
	authed.GET("/orders", h.Order.ListOrders)
	authed.GET("/orders/:id", h.Order.GetOrder)

	authed.GET("/profile", h.Profile.GetProfile)
	authed.PATCH("/profile", h.Profile.UpdateProfile)
}

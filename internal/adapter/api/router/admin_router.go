package router

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/adapter/api/middleware"
)

func setupAdminRoutes(
	v1 *echo.Group,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
) {
	admin := v1.Group("/admin", authMiddleware.Authenticate, adminMiddleware.AdminOnly)

	admin.GET("/services", h.Service.ListServices)
	admin.POST("/services", h.Service.CreateService)
	admin.PUT("/services/:id", h.Service.UpdateService)
	admin.DELETE("/services/:id", h.Service.DeleteService)

	admin.GET("/orders", h.Order.ListAllOrders)
	admin.GET("/orders/:id", h.Order.GetOrder)
	admin.PATCH("/orders/:id/status", h.Order.UpdateStatus)

	admin.GET("/users", h.Profile.ListUsers)

	admin.PUT("/content/:key", h.Content.SaveBlock)
}

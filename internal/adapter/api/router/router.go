package router

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/adapter/api/handler"
	"promostore/internal/adapter/api/middleware"
)

// Handlers bundles everything the routers mount.
type Handlers struct {
	Service   *handler.ServiceHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Profile   *handler.ProfileHandler
	Content   *handler.ContentHandler
	Chat      *handler.ChatHandler
	WebSocket *handler.WebSocketHandler
	DevToken  *handler.DevTokenHandler
}

// Setup mounts all routes. The dev token route only appears when environment
// is "development".
func Setup(
	e *echo.Echo,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	environment string,
) {
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/v1")

	setupStoreRoutes(v1, h, authMiddleware)
	setupChatRoutes(e, v1, h, authMiddleware)
	setupAdminRoutes(v1, h, authMiddleware, adminMiddleware)

	if environment == "development" && h.DevToken != nil {
		setupDevRoutes(v1, h)
	}
}

package router

import (
	"github.com/labstack/echo/v4"

	"promostore/internal/adapter/api/middleware"
)

func setupChatRoutes(e *echo.Echo, v1 *echo.Group, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	chat := v1.Group("/orders/:id/chat", authMiddleware.Authenticate)
	chat.GET("", h.Chat.GetMessages)
	chat.POST("", h.Chat.SendMessage)

	// The websocket route authenticates from a query parameter inside the
	// handler, not through the middleware chain.
	e.GET("/ws/orders/:id/chat", h.WebSocket.HandleChat)
}

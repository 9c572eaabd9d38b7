package router

import (
	"github.com/labstack/echo/v4"
)

func setupDevRoutes(v1 *echo.Group, h Handlers) {
	v1.POST("/dev/token", h.DevToken.IssueToken)
	v1.POST("/dev/users", h.DevToken.CreateUser)
}

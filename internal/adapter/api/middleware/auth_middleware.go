package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"promostore/internal/infrastructure/firebase"
)

type AuthMiddleware struct {
	authClient  *firebase.FirebaseAuthClient
	devTokens   *firebase.DevTokenGenerator
	environment string
}

func NewAuthMiddleware(authClient *firebase.FirebaseAuthClient, devTokens *firebase.DevTokenGenerator, environment string) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:  authClient,
		devTokens:   devTokens,
		environment: environment,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		uid, err := m.resolveUID(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set("uid", uid)

		return next(c)
	}
}

// GetUIDFromToken verifies a raw bearer token outside the middleware chain
// (the websocket handler authenticates from a query parameter).
func (m *AuthMiddleware) GetUIDFromToken(ctx context.Context, token string) (string, error) {
	return m.resolveUID(ctx, token)
}

func (m *AuthMiddleware) resolveUID(ctx context.Context, token string) (string, error) {
	// Locally signed tokens are honored in development only.
	if m.environment == "development" && m.devTokens != nil {
		if uid, err := m.devTokens.Validate(token); err == nil {
			return uid, nil
		}
	}

	return m.authClient.VerifyToken(ctx, token)
}

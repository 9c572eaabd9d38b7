package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"promostore/internal/domain/repository"
)

type AdminMiddleware struct {
	profileRepo repository.ProfileRepository
}

func NewAdminMiddleware(profileRepo repository.ProfileRepository) *AdminMiddleware {
	return &AdminMiddleware{
		profileRepo: profileRepo,
	}
}

// AdminOnly requires that Authenticate ran earlier in the chain.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		profile, err := m.profileRepo.GetByID(c.Request().Context(), uid)
		if err != nil || !profile.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}

		c.Set("is_admin", true)

		return next(c)
	}
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusdesk/classroom-auth/internal/api/metrics"
	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

// RequireRole enforces the role hierarchy on a route already behind Auth.
// Any role at or above required is let through.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, ok := AuthContextFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if !domain.Satisfies(ac.Claims.Role, required) {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(string(required), "forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues(string(required), "allowed").Inc()
			return next(c)
		}
	}
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusdesk/classroom-auth/internal/api/metrics"
	"github.com/campusdesk/classroom-auth/internal/core/domain"
	"github.com/campusdesk/classroom-auth/internal/core/ports"
)

const authContextKey = "auth_context"

// AuthContextFrom returns the claims context injected by Auth or Authorize.
func AuthContextFrom(c echo.Context) (*domain.AuthContext, bool) {
	ac, ok := c.Get(authContextKey).(*domain.AuthContext)
	return ac, ok && ac != nil
}

// Auth authenticates the bearer token and injects its claims into the
// context. It does not check roles; chain RequireRole for that. Rejections
// are counted here, grants are left to RequireRole so each request records
// one decision.
func Auth(authorizer ports.Authorizer, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, err := authorizer.Extract(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return reject(c, err, "", log)
			}
			// Allowed decisions are counted by RequireRole.
			c.Set(authContextKey, ac)
			return next(c)
		}
	}
}

// Authorize authenticates the bearer token and requires a role satisfying
// required before calling next.
func Authorize(authorizer ports.Authorizer, required domain.Role, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, err := authorizer.Authorize(c.Request().Header.Get(echo.HeaderAuthorization), required)
			if err != nil {
				return reject(c, err, required, log)
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues(string(required), "allowed").Inc()
			c.Set(authContextKey, ac)
			return next(c)
		}
	}
}

// reject renders every credential failure as the same 401 so clients cannot
// tell a missing token from a forged or expired one.
func reject(c echo.Context, err error, required domain.Role, log zerolog.Logger) error {
	result := "invalid_credential"
	switch {
	case errors.Is(err, domain.ErrForbidden):
		metrics.AuthorizationDecisionsTotal.WithLabelValues(string(required), "forbidden").Inc()
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrMissingCredential):
		result = "missing_credential"
	default:
		metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
	}

	metrics.AuthorizationDecisionsTotal.WithLabelValues(string(required), result).Inc()
	log.Debug().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request unauthorized")
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "scheme"
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/campusdesk/classroom-auth/internal/api/metrics"
	"github.com/campusdesk/classroom-auth/internal/core/domain"
	"github.com/campusdesk/classroom-auth/internal/core/service"
)

func newCodec(t *testing.T, now time.Time) *service.JWTCodec {
	t.Helper()
	codec, err := service.NewJWTCodec([]byte("secret"))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return codec.WithClock(func() time.Time { return now })
}

func issue(t *testing.T, codec *service.JWTCodec, role domain.Role) string {
	t.Helper()
	token, err := codec.Sign(domain.NewClaims(&domain.User{ID: 3, Email: "alice@x.com", Role: role}, time.Now()))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// run executes mw around a handler that records whether it was reached, and
// renders any returned error through echo's default error handler.
func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *domain.AuthContext) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *domain.AuthContext
	handler := mw(func(c echo.Context) error {
		got, _ = AuthContextFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, got
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	codec := newCodec(t, time.Now())
	mw := Auth(service.NewCredentialExtractor(codec), zerolog.Nop())

	rec, ac := run(t, mw, "Bearer "+issue(t, codec, domain.RoleStudent))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ac == nil || ac.Claims.Email != "alice@x.com" || ac.Claims.UserID != 3 || ac.Claims.Role != domain.RoleStudent {
		t.Fatalf("claims not injected: %+v", ac)
	}
}

func TestAuthMiddleware_Unauthorized(t *testing.T) {
	codec := newCodec(t, time.Now())
	token := issue(t, codec, domain.RoleStudent)
	expiredCodec := codec.WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) })

	tests := []struct {
		name   string
		codec  *service.JWTCodec
		header string
	}{
		{"missing header", codec, ""},
		{"empty bearer", codec, "Bearer "},
		{"garbage token", codec, "Bearer not-a-token"},
		{"expired token", expiredCodec, "Bearer " + token},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ac := run(t, Auth(service.NewCredentialExtractor(tt.codec), zerolog.Nop()), tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if ac != nil {
				t.Fatalf("next must not run")
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	for _, b := range bodies[1:] {
		if b != bodies[0] {
			t.Fatalf("unauthorized responses must be indistinguishable: %q vs %q", b, bodies[0])
		}
	}
}

func TestAuthMiddleware_BearerPrefix(t *testing.T) {
	codec := newCodec(t, time.Now())
	token := issue(t, codec, domain.RoleStudent)

	if rec, _ := run(t, Auth(service.NewCredentialExtractor(codec), zerolog.Nop()), token); rec.Code != http.StatusOK {
		t.Fatalf("lenient extractor: expected 200 for bare token, got %d", rec.Code)
	}
	if rec, _ := run(t, Auth(service.NewStrictCredentialExtractor(codec), zerolog.Nop()), token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("strict extractor: expected 401 for bare token, got %d", rec.Code)
	}
	if rec, _ := run(t, Auth(service.NewStrictCredentialExtractor(codec), zerolog.Nop()), "Token "+token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("strict extractor: expected 401 for foreign scheme, got %d", rec.Code)
	}
}

func TestAuthorizeMiddleware(t *testing.T) {
	codec := newCodec(t, time.Now())
	ex := service.NewCredentialExtractor(codec)
	teacher := "Bearer " + issue(t, codec, domain.RoleTeacher)

	if rec, ac := run(t, Authorize(ex, domain.RoleStudent, zerolog.Nop()), teacher); rec.Code != http.StatusOK || ac == nil {
		t.Fatalf("teacher on student route: expected 200, got %d", rec.Code)
	}
	if rec, _ := run(t, Authorize(ex, domain.RoleAdmin, zerolog.Nop()), teacher); rec.Code != http.StatusForbidden {
		t.Fatalf("teacher on admin route: expected 403, got %d", rec.Code)
	}
	if rec, _ := run(t, Authorize(ex, domain.RoleStudent, zerolog.Nop()), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
}

func decisionTotal() float64 {
	var total float64
	for _, required := range []domain.Role{"", domain.RoleStudent, domain.RoleTeacher, domain.RoleAdmin} {
		for _, result := range []string{"allowed", "forbidden", "missing_credential", "invalid_credential"} {
			total += testutil.ToFloat64(metrics.AuthorizationDecisionsTotal.WithLabelValues(string(required), result))
		}
	}
	return total
}

func TestAuthChain_RecordsOneDecisionPerRequest(t *testing.T) {
	codec := newCodec(t, time.Now())
	ex := service.NewCredentialExtractor(codec)
	student := "Bearer " + issue(t, codec, domain.RoleStudent)

	tests := []struct {
		name     string
		required domain.Role
		header   string
		code     int
	}{
		{"allowed", domain.RoleStudent, student, http.StatusOK},
		{"forbidden", domain.RoleTeacher, student, http.StatusForbidden},
		{"missing credential", domain.RoleStudent, "", http.StatusUnauthorized},
		{"invalid credential", domain.RoleStudent, "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := Auth(ex, zerolog.Nop())
			requireRole := RequireRole(tt.required)
			chain := func(next echo.HandlerFunc) echo.HandlerFunc { return auth(requireRole(next)) }

			before := decisionTotal()
			rec, _ := run(t, chain, tt.header)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if got := decisionTotal() - before; got != 1 {
				t.Fatalf("expected exactly one authorization decision, recorded %v", got)
			}
		})
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

func signedFor(t *testing.T, codec *JWTCodec, role domain.Role) string {
	t.Helper()
	token, err := codec.Sign(domain.NewClaims(&domain.User{ID: 9, Email: "t@x.com", Role: role}, issuedAt))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return token
}

func TestCredentialExtractor_Extract(t *testing.T) {
	codec := newTestCodec(t, "secret", issuedAt)
	token := signedFor(t, codec, domain.RoleTeacher)
	ex := NewCredentialExtractor(codec)

	ac, err := ex.Extract("Bearer " + token)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ac.Claims.UserID != 9 || ac.Claims.Email != "t@x.com" || ac.Claims.Role != domain.RoleTeacher {
		t.Fatalf("unexpected claims: %+v", ac.Claims)
	}
}

func TestCredentialExtractor_MissingCredential(t *testing.T) {
	ex := NewCredentialExtractor(newTestCodec(t, "secret", issuedAt))

	for _, header := range []string{"", "Bearer ", "Bearer    "} {
		if _, err := ex.Extract(header); !errors.Is(err, domain.ErrMissingCredential) {
			t.Fatalf("Extract(%q): expected ErrMissingCredential, got %v", header, err)
		}
	}
}

func TestCredentialExtractor_InvalidCredential(t *testing.T) {
	codec := newTestCodec(t, "secret", issuedAt)
	token := signedFor(t, codec, domain.RoleStudent)

	tests := []struct {
		name   string
		ex     *CredentialExtractor
		header string
		cause  error
	}{
		{"garbage", NewCredentialExtractor(codec), "Bearer not-a-token", domain.ErrTokenMalformed},
		{"wrong secret", NewCredentialExtractor(newTestCodec(t, "other", issuedAt)), "Bearer " + token, domain.ErrTokenSignature},
		{"expired", NewCredentialExtractor(codec.WithClock(fixedClock(issuedAt.Add(25 * time.Hour)))), "Bearer " + token, domain.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ex.Extract(tt.header)
			if !errors.Is(err, domain.ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Fatalf("expected cause %v to be preserved, got %v", tt.cause, err)
			}
		})
	}
}

// Without the "Bearer " prefix the lenient extractor treats the whole header
// as the token; the strict one refuses it.
func TestCredentialExtractor_PrefixLeniency(t *testing.T) {
	codec := newTestCodec(t, "secret", issuedAt)
	token := signedFor(t, codec, domain.RoleStudent)

	if _, err := NewCredentialExtractor(codec).Extract(token); err != nil {
		t.Fatalf("lenient extractor rejected bare token: %v", err)
	}

	_, err := NewStrictCredentialExtractor(codec).Extract(token)
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("strict extractor: expected ErrInvalidCredential, got %v", err)
	}

	if _, err := NewStrictCredentialExtractor(codec).Extract("Bearer " + token); err != nil {
		t.Fatalf("strict extractor rejected bearer token: %v", err)
	}
}

func TestCredentialExtractor_Authorize(t *testing.T) {
	codec := newTestCodec(t, "secret", issuedAt)
	ex := NewCredentialExtractor(codec)
	header := "Bearer " + signedFor(t, codec, domain.RoleTeacher)

	for _, required := range []domain.Role{domain.RoleStudent, domain.RoleTeacher} {
		if _, err := ex.Authorize(header, required); err != nil {
			t.Fatalf("teacher should satisfy %s: %v", required, err)
		}
	}

	if _, err := ex.Authorize(header, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin route, got %v", err)
	}

	if _, err := ex.Authorize("", domain.RoleStudent); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

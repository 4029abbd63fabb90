package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

// JWTCodec implements ports.TokenCodec with HS256-signed JWTs.
type JWTCodec struct {
	secret []byte
	now    func() time.Time
}

// tokenClaims is the wire form: {sub, email, role, exp, iat}.
type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTCodec returns a codec keyed by secret. An empty secret is a startup
// error and yields domain.ErrMissingSecret.
func NewJWTCodec(secret []byte) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, domain.ErrMissingSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &JWTCodec{secret: key, now: time.Now}, nil
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *JWTCodec) WithClock(now func() time.Time) *JWTCodec {
	return &JWTCodec{secret: c.secret, now: now}
}

// Sign serializes claims and signs them. The signature covers the expiry.
func (c *JWTCodec) Sign(claims domain.Claims) (string, error) {
	tc := tokenClaims{
		Email: claims.Email,
		Role:  string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(c.now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// Failures are classified as ErrTokenMalformed, ErrTokenSignature or
// ErrTokenExpired.
func (c *JWTCodec) Verify(token string) (domain.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.Claims{}, classifyTokenError(err)
	}

	// exp is exclusive: a token is dead at its expiry second, not after it.
	expiresAt := tc.ExpiresAt.Time
	if !c.now().Before(expiresAt) {
		return domain.Claims{}, domain.ErrTokenExpired
	}

	id, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: subject %q", domain.ErrTokenMalformed, tc.Subject)
	}

	return domain.Claims{
		UserID:    id,
		Email:     tc.Email,
		Role:      domain.Role(tc.Role),
		ExpiresAt: expiresAt,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignature
	default:
		return fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
	}
}

package domain

import "time"

// TokenTTL is the fixed validity window of an issued token.
const TokenTTL = 24 * time.Hour

// Claims is the identity payload carried inside a signed token.
type Claims struct {
	UserID    int64
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// NewClaims builds the claims for a token issued to u at now.
func NewClaims(u *User, now time.Time) Claims {
	return Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: now.Add(TokenTTL),
	}
}

// AuthContext holds the claims recovered from a request's bearer token.
// It lives for one request only.
type AuthContext struct {
	Claims Claims
}

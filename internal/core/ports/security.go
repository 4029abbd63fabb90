package ports

import "github.com/campusdesk/classroom-auth/internal/core/domain"

// PasswordHasher hashes and verifies secrets using a salted adaptive hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) (bool, error)
}

// TokenCodec signs claims into a bearer token and recovers them again.
type TokenCodec interface {
	Sign(claims domain.Claims) (string, error)
	Verify(token string) (domain.Claims, error)
}

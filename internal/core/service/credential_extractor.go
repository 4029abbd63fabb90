package service

import (
	"fmt"
	"strings"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
	"github.com/campusdesk/classroom-auth/internal/core/ports"
)

const bearerPrefix = "Bearer "

// CredentialExtractor recovers the caller's claims from an Authorization
// header. Every call re-verifies the token; nothing is cached.
type CredentialExtractor struct {
	codec  ports.TokenCodec
	strict bool
}

// NewCredentialExtractor returns a lenient extractor: a header without the
// "Bearer " prefix is taken as the raw token.
func NewCredentialExtractor(codec ports.TokenCodec) *CredentialExtractor {
	return &CredentialExtractor{codec: codec}
}

// NewStrictCredentialExtractor returns an extractor that rejects any header
// not starting with "Bearer ".
func NewStrictCredentialExtractor(codec ports.TokenCodec) *CredentialExtractor {
	return &CredentialExtractor{codec: codec, strict: true}
}

// Extract returns the authenticated context for authorizationHeader.
//
// An absent header or empty token yields ErrMissingCredential. Any token
// verification failure yields ErrInvalidCredential wrapping the token error.
func (e *CredentialExtractor) Extract(authorizationHeader string) (*domain.AuthContext, error) {
	if authorizationHeader == "" {
		return nil, domain.ErrMissingCredential
	}

	token, hasPrefix := strings.CutPrefix(authorizationHeader, bearerPrefix)
	if !hasPrefix && e.strict {
		return nil, fmt.Errorf("%w: authorization scheme is not bearer", domain.ErrInvalidCredential)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMissingCredential
	}

	claims, err := e.codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}
	return &domain.AuthContext{Claims: claims}, nil
}

// Authorize extracts the caller and checks that its role satisfies required.
func (e *CredentialExtractor) Authorize(authorizationHeader string, required domain.Role) (*domain.AuthContext, error) {
	ac, err := e.Extract(authorizationHeader)
	if err != nil {
		return nil, err
	}
	if !domain.Satisfies(ac.Claims.Role, required) {
		return nil, fmt.Errorf("%w: role %q does not satisfy %q", domain.ErrForbidden, ac.Claims.Role, required)
	}
	return ac, nil
}

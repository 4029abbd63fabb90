package ports

import (
	"context"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetIdentity(ctx context.Context, id int64) (*domain.User, error)
}

// Authorizer turns an Authorization header value into an authenticated
// request context, optionally demanding a minimum role.
type Authorizer interface {
	Extract(authorizationHeader string) (*domain.AuthContext, error)
	Authorize(authorizationHeader string, required domain.Role) (*domain.AuthContext, error)
}

package ports

import (
	"context"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

// UserRepository is the persistence collaborator for identities.
// Lookups return domain.ErrUserNotFound when nothing matches; Create returns
// domain.ErrUserExists when the email is already taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

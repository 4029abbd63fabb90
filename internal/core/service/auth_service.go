package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
	"github.com/campusdesk/classroom-auth/internal/core/ports"
)

// AuthService implements registration, login and identity lookup.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	log    zerolog.Logger
	now    func() time.Time
	// dummyHash is verified against when the email is unknown so that
	// both login failures cost one hash comparison.
	dummyHash string
}

const dummyPassword = "classroom-auth:unknown-user"

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy password hash")
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		codec:     codec,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// AuthenticateUser checks email and password against the store. It does not
// issue a token.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("stored password hash unusable")
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidPassword
	}
	return user, nil
}

// CreateUser validates role, hashes password and persists a new identity.
// The returned user carries the id assigned by the store.
func (s *AuthService) CreateUser(ctx context.Context, email, password, role string) (*domain.User, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         r,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// GetIdentity looks up a user by id.
func (s *AuthService) GetIdentity(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Register is CreateUser under the name the HTTP layer uses.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*domain.User, error) {
	return s.CreateUser(ctx, email, password, role)
}

// Login authenticates the user and issues a token valid for domain.TokenTTL.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.AuthenticateUser(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidPassword):
			s.log.Debug().Err(err).Msg("login rejected")
		case errors.Is(err, domain.ErrHashing):
			// Already logged; the caller sees an ordinary login failure.
			return "", nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return "", nil, err
	}

	token, err := s.codec.Sign(domain.NewClaims(user, s.now()))
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("token issued")
	return token, user, nil
}

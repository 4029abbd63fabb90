package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
	"github.com/campusdesk/classroom-auth/internal/core/ports"
)

const defaultIdentityTTL = 5 * time.Minute

// IdentityCache is a read-through cache in front of a UserRepository for
// lookups by id. Identities never change after registration, so entries
// only expire. Key format: identity:<id>
//
// Password hashes are not cached; FindByID results served from the cache
// carry an empty PasswordHash.
type IdentityCache struct {
	ports.UserRepository
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

type cachedIdentity struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// NewIdentityCache wraps next. If ttl <= 0, defaultIdentityTTL is used.
func NewIdentityCache(next ports.UserRepository, client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *IdentityCache {
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityCache{UserRepository: next, client: client, ttl: ttl, log: log}
}

// FindByID serves from Redis when possible. Cache failures fall back to the
// underlying repository.
func (c *IdentityCache) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	key := identityKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ci cachedIdentity
		if jerr := json.Unmarshal(raw, &ci); jerr == nil {
			return ci.toDomain(), nil
		}
		c.log.Warn().Str("key", key).Msg("discarding undecodable identity cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("identity cache read failed")
	}

	user, err := c.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, user); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("identity cache write failed")
	}
	return user, nil
}

func (c *IdentityCache) store(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(cachedIdentity{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return c.client.Set(ctx, identityKey(u.ID), raw, c.ttl).Err()
}

func (ci cachedIdentity) toDomain() *domain.User {
	return &domain.User{
		ID:        ci.ID,
		Email:     ci.Email,
		Role:      domain.Role(ci.Role),
		CreatedAt: time.Unix(ci.CreatedAt, 0).UTC(),
		UpdatedAt: time.Unix(ci.UpdatedAt, 0).UTC(),
	}
}

func identityKey(id int64) string {
	return "identity:" + strconv.FormatInt(id, 10)
}

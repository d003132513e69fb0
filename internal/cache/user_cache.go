// Package cache provides a Redis-backed lookup cache for resolved
// users. The auth guard re-materializes the token subject from storage
// on every protected request; with Redis configured those lookups are
// absorbed for a short TTL instead of hitting the database each time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/web-auth-service/internal/model"
)

// userTTL bounds how stale a cached user can get. A user deleted after
// a token was issued keeps resolving for at most this long.
const userTTL = 60 * time.Second

// UserCache caches password-stripped users by id. A nil client disables
// it: every Get misses and Set is a no-op, so callers need no branches
// for the cache-less deployment.
type UserCache struct {
	client *redis.Client
}

func NewUserCache(client *redis.Client) *UserCache { return &UserCache{client: client} }

// Enabled reports whether a Redis client backs this cache.
func (c *UserCache) Enabled() bool { return c != nil && c.client != nil }

func userKey(id uint64) string { return fmt.Sprintf("auth:user:%d", id) }

// Get returns the cached user and whether it was present. Redis errors
// count as misses.
func (c *UserCache) Get(ctx context.Context, id uint64) (model.PublicUser, bool) {
	if !c.Enabled() {
		return model.PublicUser{}, false
	}
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return model.PublicUser{}, false
	}
	var u model.PublicUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.PublicUser{}, false
	}
	return u, true
}

// Set stores the user under its id for userTTL. Failures are ignored;
// the cache is an optimization, never a source of truth.
func (c *UserCache) Set(ctx context.Context, u model.PublicUser) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	c.client.Set(ctx, userKey(u.ID), raw, userTTL)
}

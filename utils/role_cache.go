package utils

import (
	"context"
	"errors"

	"appointly/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RoleCache remembers the current role of authenticated users. Anything that
// changes a role must call Forget so the next request reloads it.
type RoleCache interface {
	Role(ctx context.Context, userID string) (models.Role, bool)
	Remember(ctx context.Context, userID string, role models.Role)
	Forget(ctx context.Context, userID string) error
}

// RedisRoleCache keeps roles in Redis for AuthCacheTTL. Read and write
// failures degrade to cache misses.
type RedisRoleCache struct {
	Client *redis.Client
}

func roleCacheKey(userID string) string {
	return AuthCachePrefix + "role:" + userID
}

func (c *RedisRoleCache) Role(ctx context.Context, userID string) (models.Role, bool) {
	val, err := c.Client.Get(ctx, roleCacheKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			GetLogger().Warn("auth cache read failed", zap.Error(err))
		}
		return "", false
	}
	return models.Role(val), val != ""
}

func (c *RedisRoleCache) Remember(ctx context.Context, userID string, role models.Role) {
	if err := c.Client.Set(ctx, roleCacheKey(userID), string(role), AuthCacheTTL).Err(); err != nil {
		GetLogger().Warn("auth cache write failed", zap.Error(err))
	}
}

func (c *RedisRoleCache) Forget(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, roleCacheKey(userID)).Err()
}

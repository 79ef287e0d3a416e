package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// MenuCache holds the last successful menu recommendation per user. It is
// advisory: writes never fail the caller and read failures count as misses.
type MenuCache interface {
	CacheMenus(ctx context.Context, userID uuid.UUID, menus []types.RecommendedMenu)
	GetCachedMenus(ctx context.Context, userID uuid.UUID) ([]types.RecommendedMenu, bool)
	EvictMenus(ctx context.Context, userID uuid.UUID)
}

// RedisMenuCache stores menus as JSON under one key per user
type RedisMenuCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisMenuCache creates a cache. A nil client disables caching.
func NewRedisMenuCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisMenuCache {
	return &RedisMenuCache{redis: client, ttl: ttl, logger: logger}
}

func menuCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("mealplan:menus:%s", userID)
}

// CacheMenus overwrites the user's cached menus
func (c *RedisMenuCache) CacheMenus(ctx context.Context, userID uuid.UUID, menus []types.RecommendedMenu) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(menus)
	if err != nil {
		c.logger.Warn("failed to marshal menus for cache", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, menuCacheKey(userID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache menus", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// GetCachedMenus returns the user's cached menus, if any
func (c *RedisMenuCache) GetCachedMenus(ctx context.Context, userID uuid.UUID) ([]types.RecommendedMenu, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, menuCacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to read cached menus", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return nil, false
	}
	var menus []types.RecommendedMenu
	if err := json.Unmarshal(data, &menus); err != nil {
		c.logger.Warn("discarding corrupt cached menus", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, false
	}
	return menus, true
}

// EvictMenus removes the user's cached menus
func (c *RedisMenuCache) EvictMenus(ctx context.Context, userID uuid.UUID) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, menuCacheKey(userID)).Err(); err != nil {
		c.logger.Warn("failed to evict cached menus", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

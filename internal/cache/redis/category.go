// Package redis caches the category listing in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/promptgallery-server/internal/model"
)

const categoriesKey = "gallery:categories"

type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ model.CategoryCache = (*CategoryCache)(nil)

type CategoryCache struct {
	api redisAPI
	ttl time.Duration
}

type cachedCategory struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NormalizedKey string    `json:"key"`
	CreatedAt     time.Time `json:"created_at"`
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, opts Options) (*CategoryCache, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewCategoryCache(rdb, opts.TTL), rdb, nil
}

func NewCategoryCache(api redisAPI, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		api: api,
		ttl: ttl,
	}
}

// Get reports a miss with ok=false and a nil error.
func (c *CategoryCache) Get(ctx context.Context) ([]model.Category, bool, error) {
	raw, err := c.api.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read category cache: %w", err)
	}

	var cached []cachedCategory
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("failed to decode category cache: %w", err)
	}

	categories := make([]model.Category, len(cached))
	for i, c := range cached {
		categories[i] = model.Category(c)
	}
	return categories, true, nil
}

func (c *CategoryCache) Set(ctx context.Context, categories []model.Category) error {
	cached := make([]cachedCategory, len(categories))
	for i, category := range categories {
		cached[i] = cachedCategory(category)
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	if err := c.api.Set(ctx, categoriesKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write category cache: %w", err)
	}
	return nil
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.api.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate category cache: %w", err)
	}
	return nil
}

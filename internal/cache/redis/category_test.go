package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/promptgallery-server/internal/model"
)

// fakeRedis keeps values in a map and ignores expirations.
type fakeRedis struct {
	data    map[string][]byte
	ttl     time.Duration
	failGet error
	failSet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.failSet != nil {
		return redis.NewStatusResult("", f.failSet)
	}
	f.data[key] = value.([]byte)
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCategoryCache_MissSetHitInvalidate(t *testing.T) {
	ctx := context.Background()
	api := newFakeRedis()
	cache := NewCategoryCache(api, time.Minute)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	categories := []model.Category{
		{ID: uuid.New(), Name: "AI/ML", NormalizedKey: "aiml", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: uuid.New(), Name: "Writing", NormalizedKey: "writing", CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, cache.Set(ctx, categories))
	assert.Equal(t, time.Minute, api.ttl)

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, categories, got)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryCache_EmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	cache := NewCategoryCache(newFakeRedis(), time.Minute)

	require.NoError(t, cache.Set(ctx, []model.Category{}))
	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestCategoryCache_Errors(t *testing.T) {
	ctx := context.Background()

	api := newFakeRedis()
	api.failGet = errors.New("connection refused")
	_, ok, err := NewCategoryCache(api, time.Minute).Get(ctx)
	require.Error(t, err)
	assert.False(t, ok)

	api = newFakeRedis()
	api.failSet = errors.New("OOM")
	err = NewCategoryCache(api, time.Minute).Set(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write category cache")

	api = newFakeRedis()
	api.data[categoriesKey] = []byte("not json")
	_, _, err = NewCategoryCache(api, time.Minute).Get(ctx)
	assert.Error(t, err)
}

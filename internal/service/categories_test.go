package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	servermocks "github.com/dtroode/promptgallery-server/internal/mocks"
	"github.com/dtroode/promptgallery-server/internal/model"
	"github.com/dtroode/promptgallery-server/internal/repository/memory"
	"github.com/dtroode/promptgallery-server/internal/testutil"
)

func TestCategories_UpsertCollidingNamesYieldsOneCategory(t *testing.T) {
	pairs := [][2]string{
		{"AI/ML", "ai ml"},
		{"AIML", "a.i.-m.l."},
		{"Data Science", "data_science"},
		{"Cooking 101", "COOKING-101"},
	}

	for _, pair := range pairs {
		t.Run(pair[0]+" vs "+pair[1], func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewCategoryRepository()
			registry := NewCategories(store, nil, testutil.MakeNoopLogger())

			first, created, err := registry.UpsertIfAbsent(ctx, pair[0])
			require.NoError(t, err)
			assert.True(t, created)

			second, created, err := registry.UpsertIfAbsent(ctx, pair[1])
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, first.ID, second.ID)
			assert.Equal(t, pair[0], second.Name, "first-seen display form wins")

			list, err := registry.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestCategories_ConcurrentUpsert(t *testing.T) {
	ctx := context.Background()
	registry := NewCategories(memory.NewCategoryRepository(), nil, testutil.MakeNoopLogger())

	names := []string{"Machine Learning", "machine-learning", "MACHINE LEARNING", "machinelearning", "Machine_Learning"}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[uuid.UUID]struct{})
		created int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			category, isNew, err := registry.UpsertIfAbsent(ctx, name)
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			ids[category.ID] = struct{}{}
			if isNew {
				created++
			}
		}(names[i%len(names)])
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)

	list, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategories_UpsertConflictFetchesExisting(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewCategoryStore(t)
	existing := model.Category{ID: uuid.New(), Name: "AI/ML", NormalizedKey: "aiml"}

	store.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.NormalizedKey == "aiml" && c.Name == "ai ml"
	})).Return(model.Category{}, model.ErrConflict).Once()
	store.On("GetByNormalizedKey", mock.Anything, "aiml").Return(existing, nil).Once()

	registry := NewCategories(store, nil, testutil.MakeNoopLogger())
	category, created, err := registry.UpsertIfAbsent(ctx, "ai ml")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, category)
}

func TestCategories_UpsertRejectsEmptyKey(t *testing.T) {
	registry := NewCategories(servermocks.NewCategoryStore(t), nil, testutil.MakeNoopLogger())

	_, _, err := registry.UpsertIfAbsent(context.Background(), " / ")
	assert.ErrorIs(t, err, apierrors.ErrMissingField)
}

func TestCategories_Add(t *testing.T) {
	ctx := context.Background()
	registry := NewCategories(memory.NewCategoryRepository(), nil, testutil.MakeNoopLogger())

	category, err := registry.Add(ctx, "  Writing ")
	require.NoError(t, err)
	assert.Equal(t, "Writing", category.Name)
	assert.Equal(t, "writing", category.NormalizedKey)

	_, err = registry.Add(ctx, "WRITING!")
	require.ErrorIs(t, err, apierrors.ErrDuplicateCategory)
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Category already exists", apiErr.Message)

	_, err = registry.Add(ctx, "")
	assert.ErrorIs(t, err, apierrors.ErrMissingField)
}

func TestCategories_Resolve(t *testing.T) {
	ctx := context.Background()
	registry := NewCategories(memory.NewCategoryRepository(), nil, testutil.MakeNoopLogger())
	_, err := registry.Add(ctx, "AI/ML")
	require.NoError(t, err)

	category, err := registry.Resolve(ctx, "ai-ml")
	require.NoError(t, err)
	assert.Equal(t, "AI/ML", category.Name)

	_, err = registry.Resolve(ctx, "Gardening")
	assert.ErrorIs(t, err, apierrors.ErrUnknownCategory)

	_, err = registry.Resolve(ctx, "???")
	assert.ErrorIs(t, err, apierrors.ErrUnknownCategory)
}

func TestCategories_StoreFailuresAreRetryable(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewCategoryStore(t)
	store.On("Create", mock.Anything, mock.Anything).Return(model.Category{}, context.DeadlineExceeded).Once()
	store.On("List", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	registry := NewCategories(store, nil, testutil.MakeNoopLogger())

	_, _, err := registry.UpsertIfAbsent(ctx, "Writing")
	require.ErrorIs(t, err, apierrors.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	apiErr, _ := apierrors.As(err)
	assert.True(t, apiErr.Retryable())

	_, err = registry.List(ctx)
	assert.ErrorIs(t, err, apierrors.ErrStorage)
}

func TestCategories_ListCacheAside(t *testing.T) {
	ctx := context.Background()
	cached := []model.Category{{ID: uuid.New(), Name: "Writing", NormalizedKey: "writing"}}

	t.Run("hit skips the store", func(t *testing.T) {
		store := servermocks.NewCategoryStore(t)
		cache := servermocks.NewCategoryCache(t)
		cache.On("Get", mock.Anything).Return(cached, true, nil).Once()

		list, err := NewCategories(store, cache, testutil.MakeNoopLogger()).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, list)
		store.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("miss fills the cache", func(t *testing.T) {
		store := servermocks.NewCategoryStore(t)
		cache := servermocks.NewCategoryCache(t)
		cache.On("Get", mock.Anything).Return(nil, false, nil).Once()
		store.On("List", mock.Anything).Return(cached, nil).Once()
		cache.On("Set", mock.Anything, cached).Return(nil).Once()

		list, err := NewCategories(store, cache, testutil.MakeNoopLogger()).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, list)
	})

	t.Run("cache errors fall back to the store", func(t *testing.T) {
		store := servermocks.NewCategoryStore(t)
		cache := servermocks.NewCategoryCache(t)
		cache.On("Get", mock.Anything).Return(nil, false, errors.New("redis down")).Once()
		store.On("List", mock.Anything).Return(cached, nil).Once()
		cache.On("Set", mock.Anything, cached).Return(errors.New("redis down")).Once()

		list, err := NewCategories(store, cache, testutil.MakeNoopLogger()).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, list)
	})

	t.Run("insert invalidates", func(t *testing.T) {
		cache := servermocks.NewCategoryCache(t)
		cache.On("Invalidate", mock.Anything).Return(nil).Once()

		_, err := NewCategories(memory.NewCategoryRepository(), cache, testutil.MakeNoopLogger()).Add(ctx, "Poetry")
		require.NoError(t, err)
	})
}

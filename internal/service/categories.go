package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// Categories is the category registry. Uniqueness of the normalized key is
// enforced by the store; the registry never checks before inserting.
type Categories struct {
	store  model.CategoryStore
	cache  model.CategoryCache
	logger *logger.Logger
	now    func() time.Time
}

// NewCategories creates the registry. cache may be nil.
func NewCategories(store model.CategoryStore, cache model.CategoryCache, logger *logger.Logger) *Categories {
	return &Categories{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func (c *Categories) Normalize(name string) string {
	return model.NormalizeCategory(name)
}

// UpsertIfAbsent returns the category whose normalized key matches name,
// creating it with name as display form when none exists. created reports
// whether this call inserted it.
func (c *Categories) UpsertIfAbsent(ctx context.Context, name string) (category model.Category, created bool, err error) {
	name = strings.TrimSpace(name)
	key := c.Normalize(name)
	if key == "" {
		return model.Category{}, false, apierrors.NewErrMissingField("field")
	}

	category, err = c.insert(ctx, name, key)
	if err == nil {
		c.logger.Info("Categories: category created",
			"name", category.Name,
			"key", key)
		return category, true, nil
	}
	if !errors.Is(err, model.ErrConflict) {
		c.logger.Error("Categories: failed to create category",
			"name", name,
			"error", err.Error())
		return model.Category{}, false, storageFailure(err)
	}

	existing, err := c.store.GetByNormalizedKey(ctx, key)
	if err != nil {
		c.logger.Error("Categories: failed to load existing category",
			"key", key,
			"error", err.Error())
		return model.Category{}, false, storageFailure(err)
	}

	c.logger.Debug("Categories: reusing existing category",
		"requested", name,
		"name", existing.Name)

	return existing, false, nil
}

// Add creates a category explicitly. A colliding normalized key is reported as DuplicateCategory.
func (c *Categories) Add(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	key := c.Normalize(name)
	if key == "" {
		return model.Category{}, apierrors.NewErrMissingField("name")
	}

	category, err := c.insert(ctx, name, key)
	if errors.Is(err, model.ErrConflict) {
		c.logger.Warn("Categories: category already exists",
			"name", name,
			"key", key)
		return model.Category{}, apierrors.NewErrDuplicateCategory(name)
	}
	if err != nil {
		c.logger.Error("Categories: failed to add category",
			"name", name,
			"error", err.Error())
		return model.Category{}, storageFailure(err)
	}

	return category, nil
}

// Resolve finds the registered category matching name by normalized key.
func (c *Categories) Resolve(ctx context.Context, name string) (model.Category, error) {
	key := c.Normalize(name)
	if key == "" {
		return model.Category{}, apierrors.NewErrUnknownCategory(name)
	}

	category, err := c.store.GetByNormalizedKey(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.Category{}, apierrors.NewErrUnknownCategory(name)
	}
	if err != nil {
		return model.Category{}, storageFailure(err)
	}

	return category, nil
}

// List returns all categories in insertion order, served from the cache when possible.
func (c *Categories) List(ctx context.Context) ([]model.Category, error) {
	if c.cache != nil {
		categories, ok, err := c.cache.Get(ctx)
		if err != nil {
			c.logger.Warn("Categories: cache read failed",
				"error", err.Error())
		} else if ok {
			return categories, nil
		}
	}

	categories, err := c.store.List(ctx)
	if err != nil {
		c.logger.Error("Categories: failed to list categories",
			"error", err.Error())
		return nil, storageFailure(err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, categories); err != nil {
			c.logger.Warn("Categories: cache write failed",
				"error", err.Error())
		}
	}

	return categories, nil
}

func (c *Categories) insert(ctx context.Context, name, key string) (model.Category, error) {
	category, err := c.store.Create(ctx, model.Category{
		ID:            uuid.New(),
		Name:          name,
		NormalizedKey: key,
		CreatedAt:     c.now().UTC(),
	})
	if err != nil {
		return model.Category{}, err
	}

	if c.cache != nil {
		if err := c.cache.Invalidate(ctx); err != nil {
			c.logger.Warn("Categories: cache invalidation failed",
				"error", err.Error())
		}
	}

	return category, nil
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/promptgallery-server/internal/model"
)

var _ model.CategoryStore = (*CategoryRepository)(nil)

type CategoryRepository struct {
	mu      sync.RWMutex
	ordered []model.Category
	byKey   map[string]int
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		byKey: make(map[string]int),
	}
}

// Create checks and inserts under one lock, so of several concurrent creates
// with the same key exactly one succeeds.
func (r *CategoryRepository) Create(_ context.Context, category model.Category) (model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[category.NormalizedKey]; ok {
		return model.Category{}, fmt.Errorf("category %q: %w", category.NormalizedKey, model.ErrConflict)
	}
	r.byKey[category.NormalizedKey] = len(r.ordered)
	r.ordered = append(r.ordered, category)

	return category, nil
}

func (r *CategoryRepository) GetByNormalizedKey(_ context.Context, key string) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byKey[key]
	if !ok {
		return model.Category{}, model.ErrNotFound
	}
	return r.ordered[i], nil
}

func (r *CategoryRepository) List(_ context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Category, len(r.ordered))
	copy(out, r.ordered)
	return out, nil
}

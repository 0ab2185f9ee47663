package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/promptgallery-server/internal/model"
)

var _ model.CategoryStore = (*CategoryRepository)(nil)

type CategoryRepository struct {
	db *Connection
}

func NewCategoryRepository(db *Connection) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

// Create inserts a category. Concurrent inserts of the same normalized key are
// serialized by the unique constraint; the loser gets model.ErrConflict.
func (r *CategoryRepository) Create(ctx context.Context, category model.Category) (model.Category, error) {
	query := `INSERT INTO categories (id, name, normalized_key, created_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, name, normalized_key, created_at`

	var saved model.Category
	err := r.db.QueryRowContext(ctx, query,
		category.ID, category.Name, category.NormalizedKey, category.CreatedAt,
	).Scan(&saved.ID, &saved.Name, &saved.NormalizedKey, &saved.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, fmt.Errorf("category %q: %w", category.NormalizedKey, model.ErrConflict)
		}
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}

	return saved, nil
}

func (r *CategoryRepository) GetByNormalizedKey(ctx context.Context, key string) (model.Category, error) {
	query := `SELECT id, name, normalized_key, created_at FROM categories WHERE normalized_key = $1`

	var category model.Category
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&category.ID, &category.Name, &category.NormalizedKey, &category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, model.ErrNotFound
		}
		return model.Category{}, fmt.Errorf("failed to get category by key: %w", err)
	}

	return category, nil
}

// List returns categories in insertion order.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `SELECT id, name, normalized_key, created_at FROM categories ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.NormalizedKey, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

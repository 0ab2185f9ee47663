package model

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// CategoryStore defines persistence operations for the category registry.
// Create must reject a duplicate NormalizedKey with ErrConflict; the check is
// enforced by the store, never by a prior lookup.
type CategoryStore interface {
	Create(ctx context.Context, category Category) (Category, error)
	GetByNormalizedKey(ctx context.Context, key string) (Category, error)
	List(ctx context.Context) ([]Category, error)
}

// CategoryCache caches the registry listing.
type CategoryCache interface {
	Get(ctx context.Context) ([]Category, bool, error)
	Set(ctx context.Context, categories []Category) error
	Invalidate(ctx context.Context) error
}

// Category is a canonical content category. Name keeps the first-seen casing.
type Category struct {
	ID            uuid.UUID
	Name          string
	NormalizedKey string
	CreatedAt     time.Time
}

// NormalizeCategory drops every character outside [A-Za-z0-9] and lowercases
// the rest, so "AI/ML", "ai ml" and "AIML" share the key "aiml".
func NormalizeCategory(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r > unicode.MaxASCII {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// CategoryService defines the category registry operations exposed over HTTP.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Add(ctx context.Context, name string) (model.Category, error)
}

// Category handles the category registry endpoints.
type Category struct {
	categoryService CategoryService
	logger          *logger.Logger
}

// NewCategory creates a new Category handler.
func NewCategory(categoryService CategoryService, logger *logger.Logger) *Category {
	return &Category{categoryService: categoryService, logger: logger}
}

// List returns every registered category.
func (h *Category) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.UserContext())
	if err != nil {
		return writeError(c, err, errorKey)
	}

	out := make([]categoryResponse, len(categories))
	for i, category := range categories {
		out[i] = toCategoryResponse(category)
	}
	return c.JSON(out)
}

// Add registers a category from a JSON or form body.
func (h *Category) Add(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Category handler: unparsable body",
			"error", err.Error())
	}

	category, err := h.categoryService.Add(c.UserContext(), req.Name)
	if err != nil {
		return writeError(c, err, errorKey)
	}

	h.logger.Info("Category handler: category added",
		"name", category.Name)

	return c.JSON(toCategoryResponse(category))
}

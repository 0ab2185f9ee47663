package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// ContentService defines prompt and comment operations.
type ContentService interface {
	CreatePrompt(ctx context.Context, bearer string, params model.CreatePromptParams) (model.Prompt, error)
	ListPrompts(ctx context.Context) ([]model.EnrichedPrompt, error)
	AllPrompts(ctx context.Context) ([]model.Prompt, error)
	GetPrompt(ctx context.Context, id string) (model.EnrichedPrompt, error)
	AddComment(ctx context.Context, promptID, author, text string) ([]model.Comment, error)
}

// Prompt handles prompt and comment endpoints.
type Prompt struct {
	contentService ContentService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewPrompt creates a new Prompt handler.
func NewPrompt(contentService ContentService, contextManager model.ContextManager, logger *logger.Logger) *Prompt {
	return &Prompt{
		contentService: contentService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Create publishes a prompt from a multipart form with an "image" file.
// The bearer token is placed on the context by the authentication middleware.
func (h *Prompt) Create(c *fiber.Ctx) error {
	token, _ := h.contextManager.GetTokenFromContext(c.UserContext())

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return writeError(c, err, messageKey)
	}
	defer closeImage()

	prompt, err := h.contentService.CreatePrompt(c.UserContext(), token, model.CreatePromptParams{
		Title:        c.FormValue("title"),
		Category:     c.FormValue("category"),
		Description:  c.FormValue("description"),
		ResultOutput: c.FormValue("resultOutput"),
		Image:        image,
	})
	if err != nil {
		return writeError(c, err, messageKey)
	}

	return c.Status(fiber.StatusCreated).JSON(createPromptResponse{
		Message: "Prompt added successfully",
		Data:    toPromptResponse(prompt),
	})
}

// List returns every prompt, newest first, with its author summary.
func (h *Prompt) List(c *fiber.Ctx) error {
	prompts, err := h.contentService.ListPrompts(c.UserContext())
	if err != nil {
		return writeError(c, err, messageKey)
	}

	out := make([]promptResponse, len(prompts))
	for i, p := range prompts {
		out[i] = toEnrichedResponse(p)
	}
	return c.JSON(out)
}

// All is the public listing: prompt fields only, no author or comments.
func (h *Prompt) All(c *fiber.Ctx) error {
	prompts, err := h.contentService.AllPrompts(c.UserContext())
	if err != nil {
		return writeError(c, err, errorKey)
	}

	out := make([]publicPromptResponse, len(prompts))
	for i, p := range prompts {
		out[i] = toPublicPromptResponse(p)
	}
	return c.JSON(out)
}

// Get returns a single prompt with its comments.
func (h *Prompt) Get(c *fiber.Ctx) error {
	prompt, err := h.contentService.GetPrompt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, messageKey)
	}
	return c.JSON(toEnrichedResponse(prompt))
}

// AddComment appends a comment and returns the full ordered comment list.
func (h *Prompt) AddComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Prompt handler: unparsable comment body",
			"error", err.Error())
	}

	author := req.Author
	if author == "" {
		author = req.Name
	}

	comments, err := h.contentService.AddComment(c.UserContext(), c.Params("id"), author, req.Text)
	if err != nil {
		return writeError(c, err, messageKey)
	}

	return c.JSON(toCommentResponses(comments))
}

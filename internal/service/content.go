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

type Content struct {
	prompts    model.PromptStore
	users      model.UserStore
	categories *Categories
	tokens     *TokenService
	artifacts  *Artifacts
	logger     *logger.Logger
	now        func() time.Time
}

func NewContent(
	prompts model.PromptStore,
	users model.UserStore,
	categories *Categories,
	tokens *TokenService,
	artifacts *Artifacts,
	logger *logger.Logger,
) *Content {
	return &Content{
		prompts:    prompts,
		users:      users,
		categories: categories,
		tokens:     tokens,
		artifacts:  artifacts,
		logger:     logger,
		now:        time.Now,
	}
}

// CreatePrompt publishes a prompt on behalf of the token's subject. A
// certified author may only post to the category matching their certified
// field, compared by normalized key.
func (s *Content) CreatePrompt(ctx context.Context, bearer string, params model.CreatePromptParams) (model.Prompt, error) {
	claims, err := s.tokens.Verify(ctx, bearer)
	if err != nil {
		return model.Prompt{}, err
	}

	author, err := s.users.GetByEmail(ctx, claims.Email)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("Content service: token subject no longer resolves",
			"email", claims.Email)
		return model.Prompt{}, apierrors.NewErrAuthorNotFound(claims.Email)
	}
	if err != nil {
		s.logger.Error("Content service: failed to get author",
			"email", claims.Email,
			"error", err.Error())
		return model.Prompt{}, storageFailure(err)
	}

	params.Title = strings.TrimSpace(params.Title)
	params.Category = strings.TrimSpace(params.Category)
	params.Description = strings.TrimSpace(params.Description)
	params.ResultOutput = strings.TrimSpace(params.ResultOutput)
	if err := validatePromptParams(params); err != nil {
		return model.Prompt{}, err
	}

	if author.IsCertified() && model.NormalizeCategory(params.Category) != model.NormalizeCategory(author.CertifiedField) {
		s.logger.Warn("Content service: category does not match certified field",
			"email", author.Email,
			"category", params.Category,
			"certified_field", author.CertifiedField)
		return model.Prompt{}, apierrors.NewErrCategoryMismatch(author.CertifiedField, params.Category)
	}

	category, err := s.categories.Resolve(ctx, params.Category)
	if err != nil {
		return model.Prompt{}, err
	}

	imageRef, imageKey, err := s.artifacts.Save(ctx, ArtifactImage, params.Image)
	if err != nil {
		return model.Prompt{}, err
	}

	prompt, err := s.prompts.Create(ctx, model.Prompt{
		ID:                  uuid.New(),
		Title:               params.Title,
		Description:         params.Description,
		ResultOutput:        params.ResultOutput,
		ImageRef:            imageRef,
		Category:            category.Name,
		AuthorEmail:         claims.Email,
		CertificateSnapshot: author.CertificateRef,
		CreatedAt:           s.now().UTC(),
	})
	if err != nil {
		s.artifacts.Delete(ctx, imageKey)
		s.logger.Error("Content service: failed to create prompt",
			"email", claims.Email,
			"error", err.Error())
		return model.Prompt{}, storageFailure(err)
	}

	s.logger.Info("Content service: prompt created",
		"id", prompt.ID,
		"email", prompt.AuthorEmail,
		"category", prompt.Category)

	return prompt, nil
}

func validatePromptParams(p model.CreatePromptParams) error {
	required := []struct {
		field string
		ok    bool
	}{
		{"title", p.Title != ""},
		{"category", p.Category != ""},
		{"description", p.Description != ""},
		{"resultOutput", p.ResultOutput != ""},
		{"image", hasUpload(p.Image)},
	}
	for _, r := range required {
		if !r.ok {
			return apierrors.NewErrMissingField(r.field)
		}
	}
	return nil
}

// ListPrompts returns all prompts, newest first, each joined with its author.
// Authors are fetched in one batch; unresolved ones become the Unknown author.
func (s *Content) ListPrompts(ctx context.Context) ([]model.EnrichedPrompt, error) {
	prompts, err := s.prompts.List(ctx)
	if err != nil {
		s.logger.Error("Content service: failed to list prompts",
			"error", err.Error())
		return nil, storageFailure(err)
	}

	emails := make([]string, 0, len(prompts))
	seen := make(map[string]struct{}, len(prompts))
	for _, p := range prompts {
		if _, ok := seen[p.AuthorEmail]; ok {
			continue
		}
		seen[p.AuthorEmail] = struct{}{}
		emails = append(emails, p.AuthorEmail)
	}

	authors := make(map[string]model.AuthorSummary, len(emails))
	if len(emails) > 0 {
		users, err := s.users.GetByEmails(ctx, emails)
		if err != nil {
			s.logger.Error("Content service: failed to load authors",
				"count", len(emails),
				"error", err.Error())
			return nil, storageFailure(err)
		}
		for _, u := range users {
			authors[u.Email] = u.Summary()
		}
	}

	enriched := make([]model.EnrichedPrompt, len(prompts))
	for i, p := range prompts {
		author, ok := authors[p.AuthorEmail]
		if !ok {
			author = model.UnknownAuthor()
		}
		enriched[i] = model.EnrichedPrompt{Prompt: p, Author: author}
	}

	return enriched, nil
}

// AllPrompts returns every prompt, newest first, without resolving authors.
func (s *Content) AllPrompts(ctx context.Context) ([]model.Prompt, error) {
	prompts, err := s.prompts.List(ctx)
	if err != nil {
		s.logger.Error("Content service: failed to list all prompts",
			"error", err.Error())
		return nil, storageFailure(err)
	}
	return prompts, nil
}

// GetPrompt returns one prompt with its comments and author.
func (s *Content) GetPrompt(ctx context.Context, id string) (model.EnrichedPrompt, error) {
	promptID, err := uuid.Parse(id)
	if err != nil {
		return model.EnrichedPrompt{}, apierrors.NewErrPromptNotFound(id)
	}

	prompt, err := s.prompts.GetByID(ctx, promptID)
	if errors.Is(err, model.ErrNotFound) {
		return model.EnrichedPrompt{}, apierrors.NewErrPromptNotFound(id)
	}
	if err != nil {
		s.logger.Error("Content service: failed to get prompt",
			"id", id,
			"error", err.Error())
		return model.EnrichedPrompt{}, storageFailure(err)
	}

	author := model.UnknownAuthor()
	user, err := s.users.GetByEmail(ctx, prompt.AuthorEmail)
	switch {
	case err == nil:
		author = user.Summary()
	case !errors.Is(err, model.ErrNotFound):
		return model.EnrichedPrompt{}, storageFailure(err)
	}

	return model.EnrichedPrompt{Prompt: prompt, Author: author}, nil
}

// AddComment appends a comment and returns the prompt's comments in order,
// the new one last.
func (s *Content) AddComment(ctx context.Context, promptID, author, text string) ([]model.Comment, error) {
	id, err := uuid.Parse(promptID)
	if err != nil {
		return nil, apierrors.NewErrPromptNotFound(promptID)
	}

	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	if author == "" || text == "" {
		// An unknown prompt takes precedence over missing fields.
		if _, err := s.prompts.GetByID(ctx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, apierrors.NewErrPromptNotFound(promptID)
			}
			return nil, storageFailure(err)
		}
		if author == "" {
			return nil, apierrors.NewErrMissingField("author")
		}
		return nil, apierrors.NewErrMissingField("text")
	}

	comments, err := s.prompts.AppendComment(ctx, id, model.Comment{
		ID:        uuid.New(),
		Author:    author,
		Text:      text,
		CreatedAt: s.now().UTC(),
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, apierrors.NewErrPromptNotFound(promptID)
	}
	if err != nil {
		s.logger.Error("Content service: failed to append comment",
			"prompt_id", promptID,
			"error", err.Error())
		return nil, storageFailure(err)
	}

	s.logger.Debug("Content service: comment added",
		"prompt_id", promptID,
		"comments", len(comments))

	return comments, nil
}

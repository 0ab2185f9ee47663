package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UnknownAuthorName is shown when a prompt's author email no longer resolves.
const UnknownAuthorName = "Unknown"

// PromptStore defines persistence operations for prompts and their comments.
type PromptStore interface {
	Create(ctx context.Context, prompt Prompt) (Prompt, error)
	GetByID(ctx context.Context, id uuid.UUID) (Prompt, error)
	// List returns all prompts, newest first, each with its ordered comments.
	List(ctx context.Context) ([]Prompt, error)
	// AppendComment adds a comment and returns the prompt's full comment list
	// ordered by CreatedAt ascending with the new comment last.
	// It returns ErrNotFound when the prompt does not exist.
	AppendComment(ctx context.Context, promptID uuid.UUID, comment Comment) ([]Comment, error)
}

// Prompt is a submitted gallery item. AuthorEmail is a lookup-only reference
// to a User; CertificateSnapshot is a copy of the author's certificate at
// creation time.
type Prompt struct {
	ID                  uuid.UUID
	Title               string
	Description         string
	ResultOutput        string
	ImageRef            string
	Category            string
	AuthorEmail         string
	CertificateSnapshot string
	CreatedAt           time.Time
	Comments            []Comment
}

// Comment belongs to exactly one prompt. Author is a free-text display name.
type Comment struct {
	ID        uuid.UUID
	Author    string
	Text      string
	CreatedAt time.Time
}

// AuthorSummary is the denormalized author attached to listed prompts.
type AuthorSummary struct {
	Name           string
	Email          string
	CertificateRef string
}

// UnknownAuthor is the sentinel summary for unresolved authors.
func UnknownAuthor() AuthorSummary {
	return AuthorSummary{Name: UnknownAuthorName, Email: UnknownAuthorName}
}

// EnrichedPrompt is a prompt joined with its author summary.
type EnrichedPrompt struct {
	Prompt
	Author AuthorSummary
}

// CreatePromptParams contains the client-supplied fields of a new prompt.
type CreatePromptParams struct {
	Title        string
	Category     string
	Description  string
	ResultOutput string
	Image        *Upload
}

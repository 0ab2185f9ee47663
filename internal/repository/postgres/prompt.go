package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/promptgallery-server/internal/model"
)

var _ model.PromptStore = (*PromptRepository)(nil)

type PromptRepository struct {
	db *Connection
}

func NewPromptRepository(db *Connection) *PromptRepository {
	return &PromptRepository{
		db: db,
	}
}

const promptColumns = `id, title, description, result_output, image_ref, category, author_email, certificate_snapshot, created_at`

func scanPrompt(row rowScanner) (model.Prompt, error) {
	var (
		prompt   model.Prompt
		snapshot sql.NullString
	)
	err := row.Scan(
		&prompt.ID, &prompt.Title, &prompt.Description, &prompt.ResultOutput, &prompt.ImageRef,
		&prompt.Category, &prompt.AuthorEmail, &snapshot, &prompt.CreatedAt,
	)
	if err != nil {
		return model.Prompt{}, err
	}
	prompt.CertificateSnapshot = snapshot.String
	return prompt, nil
}

func (r *PromptRepository) Create(ctx context.Context, prompt model.Prompt) (model.Prompt, error) {
	query := `INSERT INTO prompts (id, title, description, result_output, image_ref, category, author_email, certificate_snapshot, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + promptColumns

	saved, err := scanPrompt(r.db.QueryRowContext(ctx, query,
		prompt.ID, prompt.Title, prompt.Description, prompt.ResultOutput, prompt.ImageRef,
		prompt.Category, prompt.AuthorEmail, nullString(prompt.CertificateSnapshot), prompt.CreatedAt,
	))
	if err != nil {
		return model.Prompt{}, fmt.Errorf("failed to create prompt: %w", err)
	}
	saved.Comments = []model.Comment{}

	return saved, nil
}

// GetByID returns the prompt with its comments in display order.
func (r *PromptRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE id = $1`

	prompt, err := scanPrompt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Prompt{}, model.ErrNotFound
		}
		return model.Prompt{}, fmt.Errorf("failed to get prompt by id: %w", err)
	}

	prompt.Comments, err = listComments(ctx, r.db, id)
	if err != nil {
		return model.Prompt{}, err
	}

	return prompt, nil
}

func (r *PromptRepository) List(ctx context.Context) ([]model.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]model.Prompt, 0)
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompts: %w", err)
	}
	if len(prompts) == 0 {
		return prompts, nil
	}

	ids := make([]string, len(prompts))
	for i, p := range prompts {
		ids[i] = p.ID.String()
	}
	byPrompt, err := r.commentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		prompts[i].Comments = byPrompt[prompts[i].ID]
		if prompts[i].Comments == nil {
			prompts[i].Comments = []model.Comment{}
		}
	}

	return prompts, nil
}

// commentsFor loads the comments of every prompt in ids with one query,
// grouped by prompt in display order.
func (r *PromptRepository) commentsFor(ctx context.Context, ids []string) (map[uuid.UUID][]model.Comment, error) {
	query := `SELECT prompt_id, id, author, text, created_at FROM prompt_comments
			  WHERE prompt_id = ANY($1::uuid[]) ORDER BY prompt_id, created_at, seq`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	byPrompt := make(map[uuid.UUID][]model.Comment, len(ids))
	for rows.Next() {
		var (
			promptID uuid.UUID
			c        model.Comment
		)
		if err := rows.Scan(&promptID, &c.ID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		byPrompt[promptID] = append(byPrompt[promptID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return byPrompt, nil
}

// AppendComment locks the prompt row so concurrent appends to the same prompt
// are serialized, and never stores a created_at older than the latest comment.
func (r *PromptRepository) AppendComment(ctx context.Context, promptID uuid.UUID, comment model.Comment) ([]model.Comment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM prompts WHERE id = $1 FOR UPDATE`, promptID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock prompt: %w", err)
	}

	insert := `INSERT INTO prompt_comments (id, prompt_id, author, text, created_at)
			   VALUES ($1, $2, $3, $4, GREATEST($5::timestamptz,
			       COALESCE((SELECT MAX(created_at) FROM prompt_comments WHERE prompt_id = $2), $5::timestamptz)))`
	_, err = tx.ExecContext(ctx, insert, comment.ID, promptID, comment.Author, comment.Text, comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	comments, err := listComments(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}

	return comments, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listComments(ctx context.Context, q queryer, promptID uuid.UUID) ([]model.Comment, error) {
	query := `SELECT id, author, text, created_at FROM prompt_comments
			  WHERE prompt_id = $1 ORDER BY created_at, seq`

	rows, err := q.QueryContext(ctx, query, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

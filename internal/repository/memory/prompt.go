package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/promptgallery-server/internal/model"
)

var _ model.PromptStore = (*PromptRepository)(nil)

type PromptRepository struct {
	mu      sync.RWMutex
	prompts map[uuid.UUID]*model.Prompt
}

func NewPromptRepository() *PromptRepository {
	return &PromptRepository{
		prompts: make(map[uuid.UUID]*model.Prompt),
	}
}

func (r *PromptRepository) Create(_ context.Context, prompt model.Prompt) (model.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := prompt
	stored.Comments = []model.Comment{}
	r.prompts[prompt.ID] = &stored

	return clonePrompt(&stored), nil
}

func (r *PromptRepository) GetByID(_ context.Context, id uuid.UUID) (model.Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prompts[id]
	if !ok {
		return model.Prompt{}, model.ErrNotFound
	}
	return clonePrompt(p), nil
}

func (r *PromptRepository) List(_ context.Context) ([]model.Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		out = append(out, clonePrompt(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PromptRepository) AppendComment(_ context.Context, promptID uuid.UUID, comment model.Comment) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.prompts[promptID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if n := len(p.Comments); n > 0 && comment.CreatedAt.Before(p.Comments[n-1].CreatedAt) {
		comment.CreatedAt = p.Comments[n-1].CreatedAt
	}
	p.Comments = append(p.Comments, comment)

	return clonePrompt(p).Comments, nil
}

func clonePrompt(p *model.Prompt) model.Prompt {
	out := *p
	out.Comments = make([]model.Comment, len(p.Comments))
	copy(out.Comments, p.Comments)
	return out
}

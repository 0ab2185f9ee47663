// Package memory provides mutex-guarded in-process stores. They back the
// "memory" database driver used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/promptgallery-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byEmail: make(map[string]model.User),
	}
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, fmt.Errorf("email %s: %w", user.Email, model.ErrConflict)
	}
	user.PasswordHash = append([]byte(nil), user.PasswordHash...)
	r.byEmail[user.Email] = user

	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByEmails(_ context.Context, emails []string) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		if user, ok := r.byEmail[email]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

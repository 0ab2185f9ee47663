package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
// Create must reject a duplicate email with ErrConflict.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmails(ctx context.Context, emails []string) ([]User, error)
}

// User represents a registered contributor.
// CertifiedField and CertificateRef are either both set or both empty.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHash   []byte
	CertifiedField string
	CertificateRef string
	CreatedAt      time.Time
}

// IsCertified reports whether the user claimed a certified field.
func (u User) IsCertified() bool {
	return u.CertifiedField != ""
}

// Summary returns the author view of the user embedded in prompt listings.
func (u User) Summary() AuthorSummary {
	return AuthorSummary{
		Name:           u.Name,
		Email:          u.Email,
		CertificateRef: u.CertificateRef,
	}
}

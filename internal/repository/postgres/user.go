package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/promptgallery-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, name, email, password_hash, certified_field, certificate_ref, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user           model.User
		certifiedField sql.NullString
		certificateRef sql.NullString
	)
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&certifiedField, &certificateRef, &user.CreatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	user.CertifiedField = certifiedField.String
	user.CertificateRef = certificateRef.String
	return user, nil
}

// Create inserts a user. The unique index on email rejects duplicates with model.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, name, email, password_hash, certified_field, certificate_ref, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		nullString(user.CertifiedField), nullString(user.CertificateRef), user.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("email %s: %w", user.Email, model.ErrConflict)
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByEmails fetches every user whose email is in emails with a single query.
// Unknown emails are skipped.
func (r *UserRepository) GetByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by emails: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, len(emails))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

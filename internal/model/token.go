package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the identity snapshot carried by a bearer token. It is captured
// at login and never refreshed during the token's lifetime.
type Claims struct {
	SubjectID      uuid.UUID
	Email          string
	CertifiedField string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// TokenManager signs and parses bearer tokens.
// Parse returns an error wrapping ErrTokenExpired or ErrTokenInvalid.
type TokenManager interface {
	Issue(claims Claims) (string, Claims, error)
	Parse(token string) (Claims, error)
}

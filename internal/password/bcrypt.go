package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/promptgallery-server/internal/model"
)

// MaxCost bounds the bcrypt work factor to keep login latency predictable.
const MaxCost = 14

var _ model.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt hashes passwords with bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with cost clamped to [bcrypt.MinCost, MaxCost].
func NewBcrypt(cost int) *Bcrypt {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > MaxCost:
		cost = MaxCost
	}
	return &Bcrypt{cost: cost}
}

// Cost returns the effective work factor.
func (b *Bcrypt) Cost() int {
	return b.cost
}

func (b *Bcrypt) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Compare reports whether password matches hash. Comparison is constant-time.
func (b *Bcrypt) Compare(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

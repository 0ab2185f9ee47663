package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/promptgallery-server/internal/model"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 24 * time.Hour

// Claims represents JWT claims with the contributor's identity snapshot.
type Claims struct {
	jwt.RegisteredClaims
	Email          string `json:"email"`
	CertifiedField string `json:"field,omitempty"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT token manager. A non-positive ttl falls back to DefaultTTL.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// Issue signs claims with an absolute expiry of now+ttl and returns the
// token together with the claims as stored in it.
func (j *JWT) Issue(claims model.Claims) (string, model.Claims, error) {
	now := j.now().Truncate(time.Second)
	expiresAt := now.Add(j.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.SubjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:          claims.Email,
		CertifiedField: claims.CertifiedField,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", model.Claims{}, fmt.Errorf("failed to sign token: %w", err)
	}

	claims.IssuedAt = now
	claims.ExpiresAt = expiresAt

	return tokenString, claims, nil
}

// Parse validates the signature and expiry and returns the embedded claims.
func (j *JWT) Parse(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return model.Claims{}, fmt.Errorf("%w: token is not valid", model.ErrTokenInvalid)
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: bad subject: %v", model.ErrTokenInvalid, err)
	}
	if claims.Email == "" {
		return model.Claims{}, fmt.Errorf("%w: email claim is missing", model.ErrTokenInvalid)
	}

	return model.Claims{
		SubjectID:      subjectID,
		Email:          claims.Email,
		CertifiedField: claims.CertifiedField,
		IssuedAt:       claims.IssuedAt.Time,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}

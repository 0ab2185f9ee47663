package service

import (
	"context"
	"errors"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// TokenService issues and verifies bearer tokens. Claims are a snapshot taken
// at issuance; expiry is the only way a token stops being valid.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(_ context.Context, claims model.Claims) (string, error) {
	token, issued, err := s.manager.Issue(claims)
	if err != nil {
		s.logger.Error("Token service: failed to issue token",
			"email", claims.Email,
			"error", err.Error())
		return "", apierrors.NewErrInternalServerError(err)
	}

	s.logger.Debug("Token service: token issued",
		"email", issued.Email,
		"expires_at", issued.ExpiresAt)

	return token, nil
}

func (s *TokenService) Verify(_ context.Context, token string) (model.Claims, error) {
	if token == "" {
		return model.Claims{}, apierrors.NewErrMissingToken()
	}

	claims, err := s.manager.Parse(token)
	if err != nil {
		s.logger.Debug("Token service: token rejected",
			"error", err.Error())
		if errors.Is(err, model.ErrTokenExpired) {
			return model.Claims{}, apierrors.NewErrTokenExpired(err)
		}
		return model.Claims{}, apierrors.NewErrInvalidToken(err)
	}

	return claims, nil
}

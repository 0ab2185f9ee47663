package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

type Auth struct {
	userStore  model.UserStore
	categories *Categories
	tokens     *TokenService
	hasher     model.PasswordHasher
	artifacts  *Artifacts
	logger     *logger.Logger
	now        func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	categories *Categories,
	tokens *TokenService,
	hasher model.PasswordHasher,
	artifacts *Artifacts,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:  userStore,
		categories: categories,
		tokens:     tokens,
		hasher:     hasher,
		artifacts:  artifacts,
		logger:     logger,
		now:        time.Now,
	}
}

// registrationRule returns the rejection for params, or nil when the rule holds.
type registrationRule struct {
	name  string
	check func(ctx context.Context, a *Auth, p model.RegisterParams) error
}

// registrationRules are evaluated in order; the first violation wins.
var registrationRules = []registrationRule{
	{
		name: "required fields",
		check: func(_ context.Context, _ *Auth, p model.RegisterParams) error {
			if p.Name == "" || p.Email == "" || p.Password == "" {
				return apierrors.NewErrAllFieldsRequired()
			}
			return nil
		},
	},
	{
		name: "unique email",
		check: func(ctx context.Context, a *Auth, p model.RegisterParams) error {
			_, err := a.userStore.GetByEmail(ctx, p.Email)
			switch {
			case err == nil:
				return apierrors.NewErrDuplicateEmail(p.Email)
			case errors.Is(err, model.ErrNotFound):
				return nil
			default:
				return storageFailure(err)
			}
		},
	},
	{
		name: "certificate needs field",
		check: func(_ context.Context, _ *Auth, p model.RegisterParams) error {
			if hasUpload(p.Certificate) && p.Field == "" {
				return apierrors.NewErrCategoryRequiredForCertificate()
			}
			return nil
		},
	},
	{
		name: "field needs certificate",
		check: func(_ context.Context, _ *Auth, p model.RegisterParams) error {
			if p.Field != "" && p.Field != model.OtherField && !hasUpload(p.Certificate) {
				return apierrors.NewErrCertificateRequiredForField()
			}
			return nil
		},
	},
	{
		name: "other needs new field and certificate",
		check: func(_ context.Context, _ *Auth, p model.RegisterParams) error {
			if p.Field == model.OtherField && (model.NormalizeCategory(p.NewField) == "" || !hasUpload(p.Certificate)) {
				return apierrors.NewErrNewFieldAndCertificateRequired()
			}
			return nil
		},
	},
}

func hasUpload(u *model.Upload) bool {
	return u != nil && u.Reader != nil
}

// Register validates params against registrationRules, then stores the
// certificate, claims the certified field in the category registry and
// creates the user.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)
	params.Field = strings.TrimSpace(params.Field)
	params.NewField = strings.TrimSpace(params.NewField)

	a.logger.Debug("Auth service: registering user",
		"email", params.Email,
		"field", params.Field)

	for _, rule := range registrationRules {
		if err := rule.check(ctx, a, params); err != nil {
			a.logger.Warn("Auth service: registration rejected",
				"email", params.Email,
				"rule", rule.name,
				"error", err.Error())
			return model.User{}, err
		}
	}

	finalField := params.Field
	if finalField == model.OtherField {
		finalField = params.NewField
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, apierrors.NewErrInternalServerError(err)
	}

	user := model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		CreatedAt:    a.now().UTC(),
	}

	var certificateKey string
	if finalField != "" {
		if _, _, err := a.categories.UpsertIfAbsent(ctx, finalField); err != nil {
			return model.User{}, err
		}

		ref, key, err := a.artifacts.Save(ctx, ArtifactCertificate, params.Certificate)
		if err != nil {
			return model.User{}, err
		}
		certificateKey = key
		user.CertifiedField = finalField
		user.CertificateRef = ref
	}

	created, err := a.userStore.Create(ctx, user)
	if err != nil {
		if certificateKey != "" {
			a.artifacts.Delete(ctx, certificateKey)
		}
		if errors.Is(err, model.ErrConflict) {
			a.logger.Warn("Auth service: email taken concurrently",
				"email", params.Email)
			return model.User{}, apierrors.NewErrDuplicateEmail(params.Email)
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, storageFailure(err)
	}

	a.logger.Info("Auth service: user registered",
		"email", created.Email,
		"certified_field", created.CertifiedField)

	return created, nil
}

// Login returns a token for valid credentials. Unknown email and wrong
// password produce the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", apierrors.NewErrInvalidCredentials()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Warn("Auth service: login for unknown email",
			"email", email)
		return "", apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", storageFailure(err)
	}

	if !a.hasher.Compare(user.PasswordHash, password) {
		a.logger.Warn("Auth service: wrong password",
			"email", email)
		return "", apierrors.NewErrInvalidCredentials()
	}

	token, err := a.tokens.Issue(ctx, model.Claims{
		SubjectID:      user.ID,
		Email:          user.Email,
		CertifiedField: user.CertifiedField,
	})
	if err != nil {
		return "", err
	}

	a.logger.Info("Auth service: user logged in",
		"email", email)

	return token, nil
}

// VerifyToken reports whether bearer is a valid token and returns its claims.
func (a *Auth) VerifyToken(ctx context.Context, bearer string) (model.Claims, bool) {
	claims, err := a.tokens.Verify(ctx, bearer)
	if err != nil {
		return model.Claims{}, false
	}
	return claims, true
}

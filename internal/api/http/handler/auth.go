package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// AuthService defines user registration, login and token verification.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(ctx context.Context, bearer string) (model.Claims, bool)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account from a multipart or urlencoded form. The
// optional certificate arrives as the "certificate" file.
func (h *Auth) Register(c *fiber.Ctx) error {
	email := c.FormValue("email")
	h.logger.Debug("Auth handler: processing registration request",
		"email", email)

	certificate, closeCertificate, err := formUpload(c, "certificate")
	if err != nil {
		return writeError(c, err, messageKey)
	}
	defer closeCertificate()

	_, err = h.authService.Register(c.UserContext(), model.RegisterParams{
		Name:        c.FormValue("name"),
		Email:       email,
		Password:    c.FormValue("password"),
		Field:       c.FormValue("field"),
		NewField:    c.FormValue("newField"),
		Certificate: certificate,
	})
	if err != nil {
		h.logger.Debug("Auth handler: registration failed",
			"email", email,
			"error", err.Error())
		return writeError(c, err, messageKey)
	}

	return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "User created successfully"})
}

// Login exchanges credentials from a JSON or form body for a bearer token.
// An unparsable body is treated as empty credentials.
func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Auth handler: unparsable login body",
			"error", err.Error())
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err, messageKey)
	}

	return c.JSON(loginResponse{Token: token})
}

// Verify reports whether the request's bearer token is valid.
func (h *Auth) Verify(c *fiber.Ctx) error {
	token, ok := h.contextManager.GetTokenFromContext(c.UserContext())
	if !ok {
		return c.JSON(verifyResponse{Valid: false})
	}

	claims, valid := h.authService.VerifyToken(c.UserContext(), token)
	if !valid {
		return c.JSON(verifyResponse{Valid: false})
	}

	return c.JSON(verifyResponse{Valid: true, User: toClaimsResponse(claims)})
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// Authenticate extracts bearer tokens and stores them on the user context.
// Token verification is left to the services, which own the error taxonomy.
type Authenticate struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{contextManager: contextManager, logger: logger}
}

// Bearer stores the token when one is present and never rejects the request.
func (m *Authenticate) Bearer(c *fiber.Ctx) error {
	if token := BearerToken(c.Get(fiber.HeaderAuthorization)); token != "" {
		c.SetUserContext(m.contextManager.SetTokenToContext(c.UserContext(), token))
	}
	return c.Next()
}

// RequireBearer rejects requests without a bearer token with 401.
func (m *Authenticate) RequireBearer(c *fiber.Ctx) error {
	token := BearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		m.logger.Debug("Authenticate middleware: no token provided",
			"path", c.Path())
		apiErr := apierrors.NewErrMissingToken()
		return c.Status(apiErr.Status).JSON(fiber.Map{"message": apiErr.Message})
	}

	c.SetUserContext(m.contextManager.SetTokenToContext(c.UserContext(), token))
	return c.Next()
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header
// value, or "" when the header is absent or uses another scheme.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

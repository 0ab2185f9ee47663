package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
)

// Keys of the error body. Category routes answer with {"error": ...},
// every other route with {"message": ...}.
const (
	messageKey = "message"
	errorKey   = "error"
)

// writeError renders err with the status and client-safe message of its
// APIError. Anything else becomes a generic 500.
func writeError(c *fiber.Ctx, err error, key string) error {
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.Status == 0 {
		apiErr = apierrors.NewErrInternalServerError(err)
	}

	if apiErr.Retryable() {
		c.Set(fiber.HeaderRetryAfter, "1")
	}

	return c.Status(apiErr.Status).JSON(fiber.Map{key: apiErr.Message})
}

package handler

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// ArtifactOpener streams stored artifacts by key.
type ArtifactOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Files serves uploaded certificates and images.
type Files struct {
	artifacts ArtifactOpener
	logger    *logger.Logger
}

// NewFiles creates a new Files handler.
func NewFiles(artifacts ArtifactOpener, logger *logger.Logger) *Files {
	return &Files{artifacts: artifacts, logger: logger}
}

// Serve streams the artifact named by the route wildcard.
func (h *Files) Serve(c *fiber.Ctx) error {
	key := c.Params("*")

	rc, err := h.artifacts.Open(c.UserContext(), key)
	if errors.Is(err, model.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(messageResponse{Message: "File not found"})
	}
	if err != nil {
		return writeError(c, err, messageKey)
	}

	if ext := path.Ext(key); ext != "" {
		c.Type(ext)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	// fasthttp closes rc once the body has been written.
	return c.SendStream(rc)
}

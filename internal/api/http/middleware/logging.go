package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/logger"
)

// Logging logs every HTTP request with its status and duration.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, status and duration for each request.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()
	method := c.Method()
	path := c.Path()

	l.logger.Debug("HTTP request started",
		"method", method,
		"path", path)

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	l.logger.Info("HTTP request completed",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds())

	if err != nil {
		l.logger.Error("HTTP request failed",
			"method", method,
			"path", path,
			"status", status,
			"error", err.Error())
	}

	return err
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Health serves liveness and readiness checks.
type Health struct {
	store  Pinger
	logger *logger.Logger
}

func NewHealth(store Pinger, logger *logger.Logger) *Health {
	return &Health{store: store, logger: logger}
}

func (h *Health) Live(c *fiber.Ctx) error {
	return c.SendString("Prompt gallery server is running")
}

// Ready pings the store and answers 503 when it is unreachable.
func (h *Health) Ready(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		h.logger.Warn("Health handler: store unreachable",
			"error", err.Error())
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

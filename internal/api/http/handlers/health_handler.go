package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/ratelimit"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	cfg         *config.Config
	limiter     *ratelimit.Limiter
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, cfg *config.Config, limiter *ratelimit.Limiter) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, cfg: cfg, limiter: limiter}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness and the configuration state of each sink. The
// external sinks are not probed; only locally attached dependencies are.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{
		"email":    configuredLabel(h.cfg.Email.Configured()),
		"tracker":  configuredLabel(h.cfg.Tracker.Configured()),
		"botcheck": configuredLabel(h.cfg.BotCheck.Configured()),
	}

	if h.limiter.Enabled() {
		if err := h.limiter.Ping(ctx); err != nil {
			depStatus["redis"] = err.Error()
		} else {
			depStatus["redis"] = "ok"
		}
	} else {
		depStatus["redis"] = "disabled"
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
	})
}

func configuredLabel(configured bool) string {
	if configured {
		return "configured"
	}
	return "not configured"
}

package controller

import (
	"morning-pulse-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type HealthStatus struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
	FeedClients    int    `json:"feed_clients"`
}

// HealthProbe reports live counters for the health endpoint.
type HealthProbe func() HealthStatus

type HealthController struct {
	probe HealthProbe
}

func NewHealthController(probe HealthProbe) *HealthController {
	return &HealthController{probe: probe}
}

func (c *HealthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *HealthController) Health(ctx *fiber.Ctx) error {
	status := HealthStatus{Status: "ok"}
	if c.probe != nil {
		status = c.probe()
		status.Status = "ok"
	}
	return ctx.JSON(serverutils.SuccessResponse("Service healthy", status))
}

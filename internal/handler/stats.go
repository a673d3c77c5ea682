package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

type StatsHandler struct {
	svc *service.SourceService
}

func NewStatsHandler(svc *service.SourceService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	stats, err := h.svc.Stats(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch statistics")
	}
	return c.JSON(stats)
}

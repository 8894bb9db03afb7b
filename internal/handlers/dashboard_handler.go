package handlers

import (
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := h.dashboard.Dashboard(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// Stats summarizes the reports assigned to the calling admin.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := h.dashboard.AdminStats(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

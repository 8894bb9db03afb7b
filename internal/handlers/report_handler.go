package handlers

import (
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports *services.ReportService
	export  *services.ExportService
}

func NewReportHandler(reports *services.ReportService, export *services.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, export: export}
}

// List returns reports newest first. Optional ?status= and ?category= filter.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	filter := dto.ReportFilter{
		Status:   models.ReportStatus(c.Query("status")),
		Category: models.ReportCategory(c.Query("category")),
	}
	reports, err := h.reports.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": reports})
}

func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	reports, err := h.reports.ListMine(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": reports})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.reports.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateReportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	report, activity, err := h.reports.Create(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateReportResponse{
		Report:       report,
		PointsEarned: activity.PointsEarned,
	})
}

func (h *ReportHandler) ListUpdates(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	updates, err := h.reports.ListUpdates(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": updates})
}

func (h *ReportHandler) PostUpdate(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.PostUpdateRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	update, err := h.reports.PostUpdate(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(update)
}

func (h *ReportHandler) Assign(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.AssignReportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	report, err := h.reports.Assign(c.UserContext(), p, id, req.AssigneeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Export downloads the filtered report list as CSV.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := dto.ReportFilter{
		Status:   models.ReportStatus(c.Query("status")),
		Category: models.ReportCategory(c.Query("category")),
	}

	csvBytes, err := h.export.ReportsCSV(c.UserContext(), p, filter)
	if err != nil {
		return respondError(c, err)
	}

	filename := "ecociudad-reportes-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("Cache-Control", "no-cache")
	return c.Send(csvBytes)
}

package dto

import (
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
)

// Location is the geolocation captured by the client. Both coordinates are
// pointers so a missing fix is distinguishable from (0, 0).
type Location struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type CreateReportRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"required,max=5000"`
	Category    models.ReportCategory `json:"category" validate:"required,oneof=basura contaminacion tala_ilegal mal_uso_espacios"`
	Priority    models.ReportPriority `json:"priority" validate:"required,oneof=baja media alta"`
	Location    *Location             `json:"location" validate:"required"`
	Address     *string               `json:"address,omitempty" validate:"omitempty,max=500"`
}

type PostUpdateRequest struct {
	Comment   string               `json:"comment" validate:"required,max=2000"`
	NewStatus *models.ReportStatus `json:"status,omitempty" validate:"omitempty,oneof=pendiente en_proceso resuelto rechazado"`
}

type AssignReportRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" validate:"required"`
}

type ReportFilter struct {
	Status   models.ReportStatus
	Category models.ReportCategory
}

type CreateReportResponse struct {
	Report       *models.Report `json:"report"`
	PointsEarned int            `json:"points_earned"`
}

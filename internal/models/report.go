package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportCategory string

const (
	CategoryBasura         ReportCategory = "basura"
	CategoryContaminacion  ReportCategory = "contaminacion"
	CategoryTalaIlegal     ReportCategory = "tala_ilegal"
	CategoryMalUsoEspacios ReportCategory = "mal_uso_espacios"
)

// ReportCategories lists every category in display order.
var ReportCategories = []ReportCategory{
	CategoryBasura,
	CategoryContaminacion,
	CategoryTalaIlegal,
	CategoryMalUsoEspacios,
}

func (c ReportCategory) Valid() bool {
	for _, known := range ReportCategories {
		if c == known {
			return true
		}
	}
	return false
}

type ReportStatus string

const (
	StatusPendiente ReportStatus = "pendiente"
	StatusEnProceso ReportStatus = "en_proceso"
	StatusResuelto  ReportStatus = "resuelto"
	StatusRechazado ReportStatus = "rechazado"
)

var ReportStatuses = []ReportStatus{
	StatusPendiente,
	StatusEnProceso,
	StatusResuelto,
	StatusRechazado,
}

func (s ReportStatus) Valid() bool {
	for _, known := range ReportStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Stage orders statuses along the lifecycle. Both terminal states share the
// last stage.
func (s ReportStatus) Stage() int {
	switch s {
	case StatusPendiente:
		return 0
	case StatusEnProceso:
		return 1
	case StatusResuelto, StatusRechazado:
		return 2
	}
	return -1
}

func (s ReportStatus) Terminal() bool {
	return s == StatusResuelto || s == StatusRechazado
}

type ReportPriority string

const (
	PriorityBaja  ReportPriority = "baja"
	PriorityMedia ReportPriority = "media"
	PriorityAlta  ReportPriority = "alta"
)

func (p ReportPriority) Valid() bool {
	return p == PriorityBaja || p == PriorityMedia || p == PriorityAlta
}

// Report is a citizen-filed environmental issue. Reports are never deleted.
type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    ReportCategory `gorm:"size:30;not null;index" json:"category"`
	Status      ReportStatus   `gorm:"size:20;not null;default:'pendiente';index" json:"status"`
	Priority    ReportPriority `gorm:"size:10;not null" json:"priority"`
	Latitude    float64        `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude   float64        `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Address     *string        `gorm:"size:500" json:"address,omitempty"`
	AssignedTo  *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportWithAuthor is a report row with the author's display name joined in.
type ReportWithAuthor struct {
	Report
	AuthorName string `json:"author_name"`
}

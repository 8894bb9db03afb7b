package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityReporteValido ActivityType = "reporte_valido"
	ActivityReciclaje     ActivityType = "reciclaje"
	ActivityEducacion     ActivityType = "educacion"
	ActivityCompartir     ActivityType = "compartir"
)

// ActivityPoints is the fixed credit for each activity type.
var ActivityPoints = map[ActivityType]int{
	ActivityReporteValido: 10,
	ActivityReciclaje:     15,
	ActivityEducacion:     5,
	ActivityCompartir:     3,
}

func (t ActivityType) Valid() bool {
	_, ok := ActivityPoints[t]
	return ok
}

// Points returns the fixed credit for t, or 0 for an unknown type.
func (t ActivityType) Points() int {
	return ActivityPoints[t]
}

// Activity is an append-only ledger credit.
type Activity struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	ActivityType ActivityType `gorm:"size:30;not null" json:"activity_type"`
	PointsEarned int          `gorm:"not null;check:chk_activities_points,points_earned > 0" json:"points_earned"`
	Description  string       `gorm:"size:500" json:"description"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

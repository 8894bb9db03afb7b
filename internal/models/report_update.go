package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportUpdate is an append-only audit entry on a report. Status is set only
// when an admin changed the report status in the same update.
type ReportUpdate struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID   uuid.UUID     `gorm:"type:uuid;not null;index:idx_report_updates_report_created,priority:1" json:"report_id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null" json:"user_id"`
	Status     *ReportStatus `gorm:"size:20" json:"status,omitempty"`
	Comment    string        `gorm:"type:text;not null" json:"comment"`
	Correction bool          `gorm:"not null" json:"correction"`
	CreatedAt  time.Time     `gorm:"index:idx_report_updates_report_created,priority:2" json:"created_at"`
}

func (ReportUpdate) TableName() string {
	return "report_updates"
}

func (u *ReportUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type ReportUpdateWithAuthor struct {
	ReportUpdate
	AuthorName string `json:"author_name"`
}

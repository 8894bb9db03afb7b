package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentCategory string

const (
	ContentCampana   ContentCategory = "campana"
	ContentConsejo   ContentCategory = "consejo"
	ContentActividad ContentCategory = "actividad"
)

func (c ContentCategory) Valid() bool {
	return c == ContentCampana || c == ContentConsejo || c == ContentActividad
}

// EducationalContent holds markdown articles published by admins.
type EducationalContent struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"not null;size:200" json:"title"`
	Content     string          `gorm:"type:text;not null" json:"content"`
	Category    ContentCategory `gorm:"size:20;not null" json:"category"`
	AuthorID    uuid.UUID       `gorm:"type:uuid;not null" json:"author_id"`
	IsPublished bool            `gorm:"not null;index" json:"is_published"`
	Views       int             `gorm:"not null;default:0;check:chk_content_views,views >= 0" json:"views"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (EducationalContent) TableName() string {
	return "educational_content"
}

func (c *EducationalContent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionComplete InteractionType = "complete"
)

// ContentInteraction is unique per (user, content, type): at most one view,
// one like and one completion per user and article.
type ContentInteraction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_content_interactions_unique,priority:1" json:"user_id"`
	ContentID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_content_interactions_unique,priority:2;index" json:"content_id"`
	InteractionType InteractionType `gorm:"size:20;not null;uniqueIndex:idx_content_interactions_unique,priority:3" json:"interaction_type"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (ContentInteraction) TableName() string {
	return "content_interactions"
}

func (i *ContentInteraction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

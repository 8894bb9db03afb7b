package dto

import (
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
)

type CreateContentRequest struct {
	Title       string                 `json:"title" validate:"required,max=200"`
	Content     string                 `json:"content" validate:"required"`
	Category    models.ContentCategory `json:"category" validate:"required,oneof=campana consejo actividad"`
	IsPublished bool                   `json:"is_published"`
}

type PublishContentRequest struct {
	IsPublished bool `json:"is_published"`
}

// ContentResponse is a published article as one reader sees it.
type ContentResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	HTML      string                 `json:"html"`
	Category  models.ContentCategory `json:"category"`
	Views     int                    `json:"views"`
	Likes     int64                  `json:"likes"`
	Viewed    bool                   `json:"viewed"`
	Liked     bool                   `json:"liked"`
	CreatedAt time.Time              `json:"created_at"`
}

type ViewResponse struct {
	Credited     bool `json:"credited"`
	PointsEarned int  `json:"points_earned"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}

package dto

import (
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
)

type CreateRewardRequest struct {
	Title             string                `json:"title" validate:"required,max=200"`
	Description       string                `json:"description" validate:"max=2000"`
	PointsRequired    int                   `json:"points_required" validate:"gte=0"`
	Category          models.RewardCategory `json:"category" validate:"required,oneof=descuento reconocimiento beneficio"`
	AvailableQuantity *int                  `json:"available_quantity,omitempty" validate:"omitempty,gte=0"`
	IsActive          bool                  `json:"is_active"`
}

type UpdateRewardRequest struct {
	Title             *string `json:"title" validate:"omitempty,max=200"`
	Description       *string `json:"description" validate:"omitempty,max=2000"`
	PointsRequired    *int    `json:"points_required" validate:"omitempty,gte=0"`
	AvailableQuantity *int    `json:"available_quantity" validate:"omitempty,gte=0"`
	IsActive          *bool   `json:"is_active"`
}

type AdvanceRedemptionRequest struct {
	Status models.RedemptionStatus `json:"status" validate:"required,oneof=entregado usado"`
}

type CreditActivityRequest struct {
	UserID       uuid.UUID           `json:"user_id" validate:"required"`
	ActivityType models.ActivityType `json:"activity_type" validate:"required,oneof=reciclaje compartir"`
	Description  string              `json:"description" validate:"required,max=500"`
}

type RedeemResponse struct {
	Redemption *models.UserReward `json:"redemption"`
	Points     int                `json:"points"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardCategory string

const (
	RewardDescuento      RewardCategory = "descuento"
	RewardReconocimiento RewardCategory = "reconocimiento"
	RewardBeneficio      RewardCategory = "beneficio"
)

func (c RewardCategory) Valid() bool {
	return c == RewardDescuento || c == RewardReconocimiento || c == RewardBeneficio
}

// Reward is a catalog item. A nil AvailableQuantity means unlimited stock.
type Reward struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string         `gorm:"not null;size:200" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	PointsRequired    int            `gorm:"not null;check:chk_rewards_points,points_required >= 0" json:"points_required"`
	Category          RewardCategory `gorm:"size:30;not null" json:"category"`
	AvailableQuantity *int           `gorm:"check:chk_rewards_quantity,available_quantity >= 0" json:"available_quantity,omitempty"`
	IsActive          bool           `gorm:"not null;index" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (Reward) TableName() string {
	return "rewards"
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RedemptionStatus string

const (
	RedemptionPendiente RedemptionStatus = "pendiente"
	RedemptionEntregado RedemptionStatus = "entregado"
	RedemptionUsado     RedemptionStatus = "usado"
)

func (s RedemptionStatus) Valid() bool {
	return s == RedemptionPendiente || s == RedemptionEntregado || s == RedemptionUsado
}

func (s RedemptionStatus) rank() int {
	switch s {
	case RedemptionPendiente:
		return 0
	case RedemptionEntregado:
		return 1
	case RedemptionUsado:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether fulfillment may move from s to next.
// Fulfillment only moves forward.
func (s RedemptionStatus) CanAdvanceTo(next RedemptionStatus) bool {
	return next.Valid() && next.rank() > s.rank()
}

// UserReward records one redemption. PointsSpent keeps the price paid so the
// ledger stays reconstructible after the catalog price changes.
type UserReward struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	RewardID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"reward_id"`
	Status      RedemptionStatus `gorm:"size:20;not null" json:"status"`
	PointsSpent int              `gorm:"not null" json:"points_spent"`
	RedeemedAt  time.Time        `gorm:"not null;index" json:"redeemed_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (UserReward) TableName() string {
	return "user_rewards"
}

func (u *UserReward) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type UserRewardWithReward struct {
	UserReward
	RewardTitle    string         `json:"reward_title"`
	RewardCategory RewardCategory `json:"reward_category"`
}

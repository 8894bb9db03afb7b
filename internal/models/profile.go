package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCitizen        Role = "citizen"
	RoleMunicipalAdmin Role = "municipal_admin"
	RoleSuperAdmin     Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleMunicipalAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Profile is the account record. Points is a denormalized balance that only
// the points ledger mutates, always through SQL expressions.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null;size:255" json:"full_name"`
	Role         Role      `gorm:"size:20;not null;default:'citizen'" json:"role"`
	Points       int       `gorm:"not null;default:0;check:chk_profiles_points,points >= 0" json:"points"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

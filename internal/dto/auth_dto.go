package dto

import (
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         SessionResponse `json:"user"`
}

// SessionResponse is what a client needs to restore a session: the principal
// plus its profile row.
type SessionResponse struct {
	ID      uuid.UUID       `json:"id"`
	Email   string          `json:"email"`
	Profile ProfileResponse `json:"profile"`
}

type ProfileResponse struct {
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	Points    int         `json:"points"`
	CreatedAt time.Time   `json:"created_at"`
}

type SetRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=citizen municipal_admin super_admin"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

func NewSessionResponse(p *models.Profile) SessionResponse {
	return SessionResponse{
		ID:    p.ID,
		Email: p.Email,
		Profile: ProfileResponse{
			FullName:  p.FullName,
			Role:      p.Role,
			Points:    p.Points,
			CreatedAt: p.CreatedAt,
		},
	}
}

package middleware

import (
	"errors"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const principalKey = "principal"

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// LoadPrincipal resolves the token subject to its profile so role checks see
// the current role, not the one minted into the token.
func LoadPrincipal(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var profile models.Profile
		err = db.WithContext(c.UserContext()).
			Select("id", "email", "full_name", "role").
			First(&profile, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: account not found",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Service temporarily unavailable",
			})
		}

		c.Locals(principalKey, authz.Principal{
			ID:       profile.ID,
			Email:    profile.Email,
			FullName: profile.FullName,
			Role:     profile.Role,
		})
		return c.Next()
	}
}

// GetPrincipal returns the principal stored by LoadPrincipal.
func GetPrincipal(c *fiber.Ctx) (authz.Principal, bool) {
	p, ok := c.Locals(principalKey).(authz.Principal)
	return p, ok
}

package middleware

import (
	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired lets municipal and super admins through. It must run after
// LoadPrincipal.
func AdminRequired() fiber.Handler {
	return requireRole(authz.IsAdmin, "Admin access required")
}

// SuperAdminRequired guards role management.
func SuperAdminRequired() fiber.Handler {
	return requireRole(authz.CanManageRoles, "Super admin access required")
}

func requireRole(allowed func(authz.Principal) bool, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !allowed(p) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: message,
			})
		}
		return c.Next()
	}
}

package handlers

import (
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.SignUp(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.SignIn(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.authService.SignOut(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me restores the session: principal plus profile with the current balance.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := h.authService.Me(c.UserContext(), p.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewSessionResponse(profile))
}

func (h *AuthHandler) SetRole(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SetRoleRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	profile, err := h.authService.SetRole(c.UserContext(), p, userID, req.Role)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewSessionResponse(profile))
}

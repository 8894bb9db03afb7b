package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/middleware"
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errUnauthenticated = errors.New("unauthorized")

// respondError maps service errors to HTTP statuses. Details of 5xx failures
// are logged, never returned.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, errUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrInactiveReward),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrEmailTaken):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrBackendUnavailable):
		status, message = fiber.StatusServiceUnavailable, "Service temporarily unavailable"
	}

	if status >= 500 {
		attrs := []any{"request_id", requestID(c), "action", c.Method() + " " + c.Route().Path, "error", err.Error()}
		if p, ok := middleware.GetPrincipal(c); ok {
			attrs = append(attrs, "user_id", p.ID.String())
		}
		slog.Error("request failed", attrs...)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// bind parses the JSON body into req and runs its validation tags.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fmt.Errorf("%w: invalid request body", services.ErrValidation)
	}
	if err := dto.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", services.ErrValidation, err.Error())
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", services.ErrValidation, name)
	}
	return id, nil
}

func principal(c *fiber.Ctx) (authz.Principal, error) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return authz.Principal{}, errUnauthenticated
	}
	return p, nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

package handlers

import (
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.content.ListPublished(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *ContentHandler) View(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.content.RecordContentView(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ContentHandler) Like(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.content.ToggleLike(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ContentHandler) Complete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	first, err := h.content.MarkComplete(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"completed": true, "first": first})
}

func (h *ContentHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateContentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	content, err := h.content.CreateContent(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *ContentHandler) SetPublished(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.PublishContentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	content, err := h.content.SetPublished(c.UserContext(), p, id, req.IsPublished)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(content)
}

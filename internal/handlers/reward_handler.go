package handlers

import (
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RewardHandler struct {
	rewards *services.RewardService
	points  *services.PointsService
}

func NewRewardHandler(rewards *services.RewardService, points *services.PointsService) *RewardHandler {
	return &RewardHandler{rewards: rewards, points: points}
}

func (h *RewardHandler) ListRewards(c *fiber.Ctx) error {
	rewards, err := h.rewards.ListRewards(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": rewards})
}

func (h *RewardHandler) Redeem(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	redemption, balance, err := h.rewards.Redeem(c.UserContext(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RedeemResponse{Redemption: redemption, Points: balance})
}

func (h *RewardHandler) ListActivities(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	activities, err := h.points.ListActivities(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": activities})
}

func (h *RewardHandler) ListRedemptions(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	redemptions, err := h.rewards.ListRedemptions(c.UserContext(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": redemptions})
}

func (h *RewardHandler) CreateReward(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateRewardRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	reward, err := h.rewards.CreateReward(c.UserContext(), p, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reward)
}

func (h *RewardHandler) UpdateReward(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateRewardRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	reward, err := h.rewards.UpdateReward(c.UserContext(), p, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reward)
}

func (h *RewardHandler) AdvanceRedemption(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.AdvanceRedemptionRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	redemption, err := h.rewards.AdvanceRedemption(c.UserContext(), p, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(redemption)
}

// CreditActivity awards points for activities verified offline.
func (h *RewardHandler) CreditActivity(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreditActivityRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	activity, err := h.points.CreditActivity(c.UserContext(), p, req.UserID, req.ActivityType, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/metrics"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/ecociudad/ecociudad-backend/internal/textutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardService struct {
	db *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db}
}

// ListRewards returns the active catalog, cheapest first.
func (s *RewardService) ListRewards(ctx context.Context) ([]models.Reward, error) {
	rewards := make([]models.Reward, 0)
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("points_required ASC").
		Find(&rewards).Error
	if err != nil {
		return nil, backend(err, "rewards")
	}
	return rewards, nil
}

// Redeem spends points on a reward. The balance is debited with a
// conditional update (points >= cost) so concurrent redemptions by the same
// profile cannot overdraw it; the stock and redemption row commit in the same
// transaction. It returns the redemption and the balance left.
func (s *RewardService) Redeem(ctx context.Context, p authz.Principal, rewardID uuid.UUID) (*models.UserReward, int, error) {
	var (
		redemption models.UserReward
		balance    int
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.First(&reward, "id = ?", rewardID).Error; err != nil {
			return backend(err, "reward")
		}
		if !reward.IsActive {
			return ErrInactiveReward
		}
		if reward.AvailableQuantity != nil && *reward.AvailableQuantity <= 0 {
			return ErrOutOfStock
		}

		debit := tx.Model(&models.Profile{}).
			Where("id = ? AND points >= ?", p.ID, reward.PointsRequired).
			UpdateColumn("points", gorm.Expr("points - ?", reward.PointsRequired))
		if debit.Error != nil {
			return backend(debit.Error, "profile")
		}
		if debit.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Profile{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
				return backend(err, "profile")
			}
			if count == 0 {
				return notFound("profile")
			}
			return ErrInsufficientPoints
		}

		if reward.AvailableQuantity != nil {
			stock := tx.Model(&models.Reward{}).
				Where("id = ? AND available_quantity > 0", reward.ID).
				UpdateColumn("available_quantity", gorm.Expr("available_quantity - 1"))
			if stock.Error != nil {
				return backend(stock.Error, "reward")
			}
			if stock.RowsAffected == 0 {
				return ErrOutOfStock
			}
		}

		now := time.Now().UTC()
		redemption = models.UserReward{
			ID:          uuid.New(),
			UserID:      p.ID,
			RewardID:    reward.ID,
			Status:      models.RedemptionPendiente,
			PointsSpent: reward.PointsRequired,
			RedeemedAt:  now,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return backend(err, "user reward")
		}

		var profile models.Profile
		if err := tx.Select("id", "points").First(&profile, "id = ?", p.ID).Error; err != nil {
			return backend(err, "profile")
		}
		balance = profile.Points
		return nil
	})
	if err != nil {
		metrics.Redemptions.WithLabelValues(redemptionResult(err)).Inc()
		return nil, 0, err
	}

	metrics.Redemptions.WithLabelValues("ok").Inc()
	slog.Info("reward redeemed", "action", "redeem", "user_id", p.ID.String(),
		"reward_id", rewardID.String(), "points_spent", redemption.PointsSpent, "balance", balance)
	return &redemption, balance, nil
}

// ListRedemptions returns the principal's redemptions, newest first, with the
// reward title joined in.
func (s *RewardService) ListRedemptions(ctx context.Context, p authz.Principal) ([]models.UserRewardWithReward, error) {
	out := make([]models.UserRewardWithReward, 0)
	err := s.db.WithContext(ctx).
		Model(&models.UserReward{}).
		Select("user_rewards.*, rewards.title AS reward_title, rewards.category AS reward_category").
		Joins("LEFT JOIN rewards ON rewards.id = user_rewards.reward_id").
		Where("user_rewards.user_id = ?", p.ID).
		Order("user_rewards.redeemed_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, backend(err, "user rewards")
	}
	return out, nil
}

func (s *RewardService) CreateReward(ctx context.Context, actor authz.Principal, req *dto.CreateRewardRequest) (*models.Reward, error) {
	if !authz.CanManageCatalog(actor) {
		return nil, forbiddenf("only admins can manage rewards")
	}
	title := textutil.Plain(req.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if req.PointsRequired < 0 {
		return nil, validationf("points required must be >= 0")
	}
	if !req.Category.Valid() {
		return nil, validationf("unknown reward category %q", req.Category)
	}
	if req.AvailableQuantity != nil && *req.AvailableQuantity < 0 {
		return nil, validationf("available quantity must be >= 0")
	}

	reward := models.Reward{
		ID:                uuid.New(),
		Title:             title,
		Description:       textutil.Plain(req.Description),
		PointsRequired:    req.PointsRequired,
		Category:          req.Category,
		AvailableQuantity: req.AvailableQuantity,
		IsActive:          req.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(&reward).Error; err != nil {
		return nil, backend(err, "reward")
	}
	return &reward, nil
}

func (s *RewardService) UpdateReward(ctx context.Context, actor authz.Principal, id uuid.UUID, req *dto.UpdateRewardRequest) (*models.Reward, error) {
	if !authz.CanManageCatalog(actor) {
		return nil, forbiddenf("only admins can manage rewards")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := textutil.Plain(*req.Title)
		if title == "" {
			return nil, validationf("title is required")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = textutil.Plain(*req.Description)
	}
	if req.PointsRequired != nil {
		if *req.PointsRequired < 0 {
			return nil, validationf("points required must be >= 0")
		}
		updates["points_required"] = *req.PointsRequired
	}
	if req.AvailableQuantity != nil {
		if *req.AvailableQuantity < 0 {
			return nil, validationf("available quantity must be >= 0")
		}
		updates["available_quantity"] = *req.AvailableQuantity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	db := s.db.WithContext(ctx)
	if len(updates) > 0 {
		result := db.Model(&models.Reward{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, backend(result.Error, "reward")
		}
		if result.RowsAffected == 0 {
			return nil, notFound("reward")
		}
	}

	var reward models.Reward
	if err := db.First(&reward, "id = ?", id).Error; err != nil {
		return nil, backend(err, "reward")
	}
	return &reward, nil
}

// AdvanceRedemption moves fulfillment forward: pendiente → entregado → usado.
func (s *RewardService) AdvanceRedemption(ctx context.Context, actor authz.Principal, id uuid.UUID, next models.RedemptionStatus) (*models.UserReward, error) {
	if !authz.CanManageCatalog(actor) {
		return nil, forbiddenf("only admins can fulfill redemptions")
	}
	if !next.Valid() {
		return nil, validationf("unknown redemption status %q", next)
	}

	var redemption models.UserReward
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&redemption, "id = ?", id).Error; err != nil {
			return backend(err, "user reward")
		}
		if !redemption.Status.CanAdvanceTo(next) {
			return validationf("cannot move redemption from %s to %s", redemption.Status, next)
		}
		result := tx.Model(&models.UserReward{}).
			Where("id = ? AND status = ?", id, redemption.Status).
			Updates(map[string]interface{}{"status": next, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return backend(result.Error, "user reward")
		}
		if result.RowsAffected == 0 {
			return validationf("redemption changed concurrently, retry")
		}
		redemption.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

func redemptionResult(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, ErrInactiveReward):
		return "inactive"
	case errors.Is(err, ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

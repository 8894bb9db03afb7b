package services

import (
	"context"
	"log/slog"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/metrics"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/ecociudad/ecociudad-backend/internal/textutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsService owns the activity ledger and every increase of a profile's
// balance. Debits happen in RewardService.Redeem.
type PointsService struct {
	db           *gorm.DB
	historyLimit int
}

func NewPointsService(db *gorm.DB, historyLimit int) *PointsService {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &PointsService{db: db, historyLimit: historyLimit}
}

// RecordActivity appends a ledger credit and adds it to the balance in a
// single transaction.
func (s *PointsService) RecordActivity(ctx context.Context, userID uuid.UUID, activityType models.ActivityType, points int, description string) (*models.Activity, error) {
	if err := validateCredit(activityType, points); err != nil {
		return nil, err
	}

	var activity *models.Activity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		activity, err = s.recordActivityTx(tx, userID, activityType, points, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	observeCredit(activity)
	return activity, nil
}

// CreditActivity lets an admin award the fixed credit for activities verified
// outside the app, such as recycling drop-offs.
func (s *PointsService) CreditActivity(ctx context.Context, actor authz.Principal, userID uuid.UUID, activityType models.ActivityType, description string) (*models.Activity, error) {
	if !authz.CanManageCatalog(actor) {
		return nil, forbiddenf("only admins can credit activities")
	}
	if activityType != models.ActivityReciclaje && activityType != models.ActivityCompartir {
		return nil, validationf("activity type %q cannot be credited manually", activityType)
	}
	description = textutil.Plain(description)
	if description == "" {
		return nil, validationf("description is required")
	}

	activity, err := s.RecordActivity(ctx, userID, activityType, activityType.Points(), description)
	if err != nil {
		return nil, err
	}
	slog.Info("activity credited", "action", "credit_activity", "user_id", userID.String(),
		"admin_id", actor.ID.String(), "activity_type", activityType, "points", activity.PointsEarned)
	return activity, nil
}

// ListActivities returns the principal's newest ledger credits.
func (s *PointsService) ListActivities(ctx context.Context, p authz.Principal) ([]models.Activity, error) {
	activities := make([]models.Activity, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", p.ID).
		Order("created_at DESC").
		Limit(s.historyLimit).
		Find(&activities).Error
	if err != nil {
		return nil, backend(err, "activities")
	}
	return activities, nil
}

// Balance reads the stored balance.
func (s *PointsService) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("id", "points").First(&profile, "id = ?", userID).Error; err != nil {
		return 0, backend(err, "profile")
	}
	return profile.Points, nil
}

// recordActivityTx runs inside the caller's transaction so domain events
// (report filed, article read) commit together with their credit.
func (s *PointsService) recordActivityTx(tx *gorm.DB, userID uuid.UUID, activityType models.ActivityType, points int, description string) (*models.Activity, error) {
	if err := validateCredit(activityType, points); err != nil {
		return nil, err
	}

	activity := models.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		PointsEarned: points,
		Description:  description,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return nil, backend(err, "activity")
	}

	result := tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if result.Error != nil {
		return nil, backend(result.Error, "profile")
	}
	if result.RowsAffected == 0 {
		return nil, notFound("profile")
	}
	return &activity, nil
}

func validateCredit(activityType models.ActivityType, points int) error {
	if !activityType.Valid() {
		return validationf("unknown activity type %q", activityType)
	}
	if points <= 0 {
		return validationf("points earned must be positive")
	}
	return nil
}

func observeCredit(a *models.Activity) {
	if a == nil {
		return
	}
	metrics.PointsCredited.WithLabelValues(string(a.ActivityType)).Add(float64(a.PointsEarned))
}

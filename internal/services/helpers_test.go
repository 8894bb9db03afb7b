package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/config"
	"github.com/ecociudad/ecociudad-backend/internal/database/dbtest"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	auth      *AuthService
	points    *PointsService
	reports   *ReportService
	rewards   *RewardService
	content   *ContentService
	dashboard *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	points := NewPointsService(db, 20)
	return &fixture{
		db:        db,
		auth:      NewAuthService(db, cfg),
		points:    points,
		reports:   NewReportService(db, points),
		rewards:   NewRewardService(db),
		content:   NewContentService(db, points),
		dashboard: NewDashboardService(db, 10),
	}
}

func (f *fixture) profile(t *testing.T, role models.Role, points int) authz.Principal {
	t.Helper()
	p := models.Profile{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@ecociudad.test",
		PasswordHash: "x",
		FullName:     "Ana " + string(role),
		Role:         role,
		Points:       points,
	}
	if err := f.db.Create(&p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return authz.Principal{ID: p.ID, Email: p.Email, FullName: p.FullName, Role: p.Role}
}

func (f *fixture) balance(t *testing.T, id uuid.UUID) int {
	t.Helper()
	n, err := f.points.Balance(context.Background(), id)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return n
}

func (f *fixture) count(t *testing.T, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) reward(t *testing.T, cost int, active bool, quantity *int) models.Reward {
	t.Helper()
	r := models.Reward{
		ID:                uuid.New(),
		Title:             "Descuento transporte",
		PointsRequired:    cost,
		Category:          models.RewardDescuento,
		AvailableQuantity: quantity,
		IsActive:          active,
	}
	if err := f.db.Create(&r).Error; err != nil {
		t.Fatalf("create reward: %v", err)
	}
	return r
}

func (f *fixture) article(t *testing.T, author authz.Principal, published bool) models.EducationalContent {
	t.Helper()
	c := models.EducationalContent{
		ID:          uuid.New(),
		Title:       "Cómo separar residuos",
		Content:     "# Separar\n\nOrgánico, **reciclable** y resto.",
		Category:    models.ContentConsejo,
		AuthorID:    author.ID,
		IsPublished: published,
	}
	if err := f.db.Create(&c).Error; err != nil {
		t.Fatalf("create content: %v", err)
	}
	return c
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("err = %v, want %v", err, target)
	}
}

func ptr[T any](v T) *T { return &v }

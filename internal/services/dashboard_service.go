package services

import (
	"context"
	"math"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DashboardService struct {
	db          *gorm.DB
	recentLimit int
}

func NewDashboardService(db *gorm.DB, recentLimit int) *DashboardService {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &DashboardService{db: db, recentLimit: recentLimit}
}

type reportFacet struct {
	Status   models.ReportStatus
	Category models.ReportCategory
}

// Dashboard builds the admin overview. The three reads run concurrently and
// the first failure cancels the rest.
func (s *DashboardService) Dashboard(ctx context.Context, p authz.Principal) (*dto.DashboardStats, error) {
	if !authz.IsAdmin(p) {
		return nil, forbiddenf("dashboard is restricted to admins")
	}

	var (
		facets     []reportFacet
		totalUsers int64
		recent     = make([]models.ReportWithAuthor, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.WithContext(gctx).Model(&models.Report{}).Select("status", "category").Scan(&facets).Error
		return backend(err, "reports")
	})
	g.Go(func() error {
		err := s.db.WithContext(gctx).Model(&models.Profile{}).Count(&totalUsers).Error
		return backend(err, "profiles")
	})
	g.Go(func() error {
		err := s.db.WithContext(gctx).
			Model(&models.Report{}).
			Select("reports.*, profiles.full_name AS author_name").
			Joins("LEFT JOIN profiles ON profiles.id = reports.user_id").
			Order("reports.created_at DESC").
			Limit(s.recentLimit).
			Scan(&recent).Error
		return backend(err, "reports")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statuses := make([]models.ReportStatus, len(facets))
	categories := make([]models.ReportCategory, len(facets))
	for i, f := range facets {
		statuses[i] = f.Status
		categories[i] = f.Category
	}

	stats := AggregateReports(statuses, categories)
	stats.TotalUsers = totalUsers
	stats.RecentReports = recent
	return &stats, nil
}

// AggregateReports counts reports per status and per category. Every known
// status and category is present even at zero; percentages are of the total
// rounded to one decimal, and 0 when there are no reports.
func AggregateReports(statuses []models.ReportStatus, categories []models.ReportCategory) dto.DashboardStats {
	stats := dto.DashboardStats{
		Total:         len(statuses),
		ByStatus:      make(map[models.ReportStatus]int, len(models.ReportStatuses)),
		ByCategory:    make([]dto.CategoryStat, 0, len(models.ReportCategories)),
		RecentReports: make([]models.ReportWithAuthor, 0),
	}
	for _, st := range models.ReportStatuses {
		stats.ByStatus[st] = 0
	}
	for _, st := range statuses {
		stats.ByStatus[st]++
	}

	counts := make(map[models.ReportCategory]int, len(models.ReportCategories))
	for _, c := range categories {
		counts[c]++
	}
	for _, c := range models.ReportCategories {
		stats.ByCategory = append(stats.ByCategory, dto.CategoryStat{
			Category: c,
			Count:    counts[c],
			Percent:  percent(counts[c], len(categories)),
		})
	}
	return stats
}

// AdminStats summarizes the reports assigned to the principal.
func (s *DashboardService) AdminStats(ctx context.Context, p authz.Principal) (*dto.AdminStats, error) {
	if !authz.IsAdmin(p) {
		return nil, forbiddenf("stats are restricted to admins")
	}

	var statuses []models.ReportStatus
	err := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("assigned_to = ?", p.ID).
		Pluck("status", &statuses).Error
	if err != nil {
		return nil, backend(err, "reports")
	}
	return summarizeAssigned(statuses), nil
}

func summarizeAssigned(statuses []models.ReportStatus) *dto.AdminStats {
	out := &dto.AdminStats{TotalAssigned: len(statuses)}
	for _, st := range statuses {
		switch st {
		case models.StatusEnProceso:
			out.InProgress++
		case models.StatusResuelto:
			out.Resolved++
		}
	}
	return out
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}

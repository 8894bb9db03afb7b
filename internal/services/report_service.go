package services

import (
	"context"
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

const maxReportList = 200

type ReportService struct {
	db     *gorm.DB
	points *PointsService
}

func NewReportService(db *gorm.DB, points *PointsService) *ReportService {
	return &ReportService{db: db, points: points}
}

// Create files a report for the principal and credits the reporte_valido
// activity. Report, activity and balance commit together.
func (s *ReportService) Create(ctx context.Context, p authz.Principal, req *dto.CreateReportRequest) (*models.Report, *models.Activity, error) {
	if req.Location == nil || req.Location.Latitude == nil || req.Location.Longitude == nil {
		return nil, nil, validationf("location is required")
	}
	lat, lng := *req.Location.Latitude, *req.Location.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, nil, validationf("location is out of range")
	}

	title := textutil.Plain(req.Title)
	description := textutil.Plain(req.Description)
	if title == "" {
		return nil, nil, validationf("title is required")
	}
	if description == "" {
		return nil, nil, validationf("description is required")
	}
	if !req.Category.Valid() {
		return nil, nil, validationf("unknown category %q", req.Category)
	}
	if !req.Priority.Valid() {
		return nil, nil, validationf("unknown priority %q", req.Priority)
	}

	report := models.Report{
		ID:          uuid.New(),
		UserID:      p.ID,
		Title:       title,
		Description: description,
		Category:    req.Category,
		Status:      models.StatusPendiente,
		Priority:    req.Priority,
		Latitude:    lat,
		Longitude:   lng,
		Address:     textutil.PlainPtr(req.Address),
	}

	var activity *models.Activity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return backend(err, "report")
		}
		var err error
		activity, err = s.points.recordActivityTx(tx, p.ID, models.ActivityReporteValido,
			models.ActivityReporteValido.Points(), "Reporte creado: "+title)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.ReportsCreated.WithLabelValues(string(report.Category)).Inc()
	observeCredit(activity)
	slog.Info("report created", "action", "create_report", "user_id", p.ID.String(),
		"report_id", report.ID.String(), "category", report.Category)
	return &report, activity, nil
}

// PostUpdate appends a comment to a report's trail. When an admin supplies a
// different status the report changes in the same transaction and the entry
// records the new status. Moves backwards along the lifecycle, or between the
// two terminal states, are flagged as corrections.
func (s *ReportService) PostUpdate(ctx context.Context, p authz.Principal, reportID uuid.UUID, req *dto.PostUpdateRequest) (*models.ReportUpdate, error) {
	comment := textutil.Plain(req.Comment)
	if comment == "" {
		return nil, validationf("comment is required")
	}
	if req.NewStatus != nil && !req.NewStatus.Valid() {
		return nil, validationf("unknown status %q", *req.NewStatus)
	}

	var (
		update models.ReportUpdate
		from   models.ReportStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			return backend(err, "report")
		}
		if !authz.CanViewReport(p, &report) {
			return forbiddenf("cannot update a report you do not own")
		}

		update = models.ReportUpdate{
			ID:       uuid.New(),
			ReportID: report.ID,
			UserID:   p.ID,
			Comment:  comment,
		}

		if req.NewStatus != nil && authz.CanManageReports(p) && *req.NewStatus != report.Status {
			next := *req.NewStatus
			from = report.Status
			now := time.Now().UTC()
			changes := map[string]interface{}{"status": next, "updated_at": now}
			switch {
			case next == models.StatusResuelto:
				changes["resolved_at"] = now
			case report.Status == models.StatusResuelto:
				changes["resolved_at"] = nil
			}
			if err := tx.Model(&models.Report{}).Where("id = ?", report.ID).Updates(changes).Error; err != nil {
				return backend(err, "report")
			}
			update.Status = &next
			update.Correction = isCorrection(report.Status, next)
		}

		if err := tx.Create(&update).Error; err != nil {
			return backend(err, "report update")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		metrics.StatusChanges.WithLabelValues(string(*update.Status)).Inc()
		attrs := []any{"action", "report_status", "user_id", p.ID.String(),
			"report_id", reportID.String(), "from", from, "to", *update.Status}
		if update.Correction {
			slog.Warn("report status corrected", attrs...)
		} else {
			slog.Info("report status changed", attrs...)
		}
	}
	return &update, nil
}

// ListUpdates returns a report's trail, newest first, visible to the owner
// and to admins.
func (s *ReportService) ListUpdates(ctx context.Context, p authz.Principal, reportID uuid.UUID) ([]models.ReportUpdateWithAuthor, error) {
	db := s.db.WithContext(ctx)

	var report models.Report
	if err := db.Select("id", "user_id").First(&report, "id = ?", reportID).Error; err != nil {
		return nil, backend(err, "report")
	}
	if !authz.CanViewReport(p, &report) {
		return nil, forbiddenf("cannot read updates of a report you do not own")
	}

	updates := make([]models.ReportUpdateWithAuthor, 0)
	err := db.Model(&models.ReportUpdate{}).
		Select("report_updates.*, profiles.full_name AS author_name").
		Joins("LEFT JOIN profiles ON profiles.id = report_updates.user_id").
		Where("report_updates.report_id = ?", reportID).
		Order("report_updates.created_at DESC").
		Scan(&updates).Error
	if err != nil {
		return nil, backend(err, "report updates")
	}
	return updates, nil
}

// List returns reports newest first with their author, optionally filtered.
func (s *ReportService) List(ctx context.Context, filter dto.ReportFilter) ([]models.ReportWithAuthor, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationf("unknown status %q", filter.Status)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, validationf("unknown category %q", filter.Category)
	}

	query := s.withAuthor(ctx)
	if filter.Status != "" {
		query = query.Where("reports.status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("reports.category = ?", filter.Category)
	}

	reports := make([]models.ReportWithAuthor, 0)
	if err := query.Order("reports.created_at DESC").Limit(maxReportList).Scan(&reports).Error; err != nil {
		return nil, backend(err, "reports")
	}
	return reports, nil
}

// ListMine returns the principal's own reports, newest first.
func (s *ReportService) ListMine(ctx context.Context, p authz.Principal) ([]models.ReportWithAuthor, error) {
	reports := make([]models.ReportWithAuthor, 0)
	err := s.withAuthor(ctx).
		Where("reports.user_id = ?", p.ID).
		Order("reports.created_at DESC").
		Scan(&reports).Error
	if err != nil {
		return nil, backend(err, "reports")
	}
	return reports, nil
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.ReportWithAuthor, error) {
	var reports []models.ReportWithAuthor
	if err := s.withAuthor(ctx).Where("reports.id = ?", id).Limit(1).Scan(&reports).Error; err != nil {
		return nil, backend(err, "report")
	}
	if len(reports) == 0 {
		return nil, notFound("report")
	}
	return &reports[0], nil
}

// Assign hands a report to an admin.
func (s *ReportService) Assign(ctx context.Context, actor authz.Principal, reportID, assigneeID uuid.UUID) (*models.Report, error) {
	if !authz.CanManageReports(actor) {
		return nil, forbiddenf("only admins can assign reports")
	}

	var report models.Report
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignee models.Profile
		if err := tx.Select("id", "role").First(&assignee, "id = ?", assigneeID).Error; err != nil {
			return backend(err, "assignee")
		}
		if !authz.IsAdmin(authz.Principal{ID: assignee.ID, Role: assignee.Role}) {
			return validationf("reports can only be assigned to admins")
		}

		result := tx.Model(&models.Report{}).Where("id = ?", reportID).
			Updates(map[string]interface{}{"assigned_to": assigneeID, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return backend(result.Error, "report")
		}
		if result.RowsAffected == 0 {
			return notFound("report")
		}
		return backend(tx.First(&report, "id = ?", reportID).Error, "report")
	})
	if err != nil {
		return nil, err
	}

	slog.Info("report assigned", "action", "assign_report", "user_id", actor.ID.String(),
		"report_id", reportID.String(), "assignee_id", assigneeID.String())
	return &report, nil
}

func (s *ReportService) withAuthor(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Report{}).
		Select("reports.*, profiles.full_name AS author_name").
		Joins("LEFT JOIN profiles ON profiles.id = reports.user_id")
}

func isCorrection(from, to models.ReportStatus) bool {
	if from == to {
		return false
	}
	if to.Stage() < from.Stage() {
		return true
	}
	return from.Terminal() && to.Terminal()
}

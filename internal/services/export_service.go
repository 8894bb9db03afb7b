package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"gorm.io/gorm"
)

var reportCSVHeaders = []string{
	"ID", "Title", "Category", "Status", "Priority", "Latitude", "Longitude",
	"Address", "Author", "Assigned To", "Created At", "Resolved At",
}

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// ReportsCSV renders every report matching filter as CSV, newest first, for
// offline analysis by municipal staff.
func (s *ExportService) ReportsCSV(ctx context.Context, actor authz.Principal, filter dto.ReportFilter) ([]byte, error) {
	if !authz.CanManageReports(actor) {
		return nil, forbiddenf("only admins can export reports")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationf("unknown status %q", filter.Status)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, validationf("unknown category %q", filter.Category)
	}

	query := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Select("reports.*, profiles.full_name AS author_name").
		Joins("LEFT JOIN profiles ON profiles.id = reports.user_id")
	if filter.Status != "" {
		query = query.Where("reports.status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("reports.category = ?", filter.Category)
	}

	var rows []models.ReportWithAuthor
	if err := query.Order("reports.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, backend(err, "reports")
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	if err := writer.Write(reportCSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range rows {
		address, assigned, resolved := "", "", ""
		if r.Address != nil {
			address = *r.Address
		}
		if r.AssignedTo != nil {
			assigned = r.AssignedTo.String()
		}
		if r.ResolvedAt != nil {
			resolved = r.ResolvedAt.UTC().Format("2006-01-02 15:04:05")
		}
		record := []string{
			r.ID.String(),
			spreadsheetSafe(r.Title),
			string(r.Category),
			string(r.Status),
			string(r.Priority),
			fmt.Sprintf("%.6f", r.Latitude),
			fmt.Sprintf("%.6f", r.Longitude),
			spreadsheetSafe(address),
			spreadsheetSafe(r.AuthorName),
			assigned,
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			resolved,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buffer.Bytes(), nil
}

// spreadsheetSafe prefixes cells that a spreadsheet would evaluate as a
// formula with a quote so they open as text.
func spreadsheetSafe(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}

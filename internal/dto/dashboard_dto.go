package dto

import "github.com/ecociudad/ecociudad-backend/internal/models"

type CategoryStat struct {
	Category models.ReportCategory `json:"category"`
	Count    int                   `json:"count"`
	Percent  float64               `json:"percent"`
}

type DashboardStats struct {
	Total         int                         `json:"total"`
	ByStatus      map[models.ReportStatus]int `json:"by_status"`
	ByCategory    []CategoryStat              `json:"by_category"`
	TotalUsers    int64                       `json:"total_users"`
	RecentReports []models.ReportWithAuthor   `json:"recent_reports"`
}

type AdminStats struct {
	TotalAssigned int `json:"total_assigned"`
	InProgress    int `json:"in_progress"`
	Resolved      int `json:"resolved"`
}

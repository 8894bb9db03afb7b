package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecociudad_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecociudad_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReportsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecociudad_reports_created_total",
			Help: "Reports filed by citizens",
		},
		[]string{"category"},
	)

	StatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecociudad_report_status_changes_total",
			Help: "Report status transitions applied by admins",
		},
		[]string{"status"},
	)

	PointsCredited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecociudad_points_credited_total",
			Help: "Points credited through ledger activities",
		},
		[]string{"activity_type"},
	)

	Redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecociudad_redemptions_total",
			Help: "Reward redemption attempts by result",
		},
		[]string{"result"},
	)
)

// Register adds every collector to reg. Use prometheus.DefaultRegisterer in
// the server; tests pass a fresh registry.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		RequestCount, RequestDuration, ReportsCreated, StatusChanges, PointsCredited, Redemptions,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("DASHBOARD_RECENT_LIMIT", "")
	t.Setenv("ACTIVITY_HISTORY_LIMIT", "")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("expected 15m access expiry, got %v", cfg.JWTAccessExpiry)
	}
	if cfg.DashboardRecentLimit != 10 {
		t.Errorf("expected recent limit 10, got %d", cfg.DashboardRecentLimit)
	}
	if cfg.ActivityHistoryLimit != 20 {
		t.Errorf("expected activity limit 20, got %d", cfg.ActivityHistoryLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("DASHBOARD_RECENT_LIMIT", "5")
	t.Setenv("LOG_RETENTION_DAYS", "not-a-number")

	cfg := Load()
	if cfg.JWTAccessExpiry != time.Hour {
		t.Errorf("expected 1h, got %v", cfg.JWTAccessExpiry)
	}
	if cfg.DashboardRecentLimit != 5 {
		t.Errorf("expected 5, got %d", cfg.DashboardRecentLimit)
	}
	if cfg.LogRetentionDays != 30 {
		t.Errorf("invalid retention should fall back to 30, got %d", cfg.LogRetentionDays)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN mismatch:\n got %q\nwant %q", got, want)
	}
}

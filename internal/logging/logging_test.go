package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/database/dbtest"
	"github.com/ecociudad/ecociudad-backend/internal/models"
)

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := dbtest.Open(t)
	h := newPGHandler(db, time.Hour)

	logger := slog.New(h).With("request_id", "req-42")
	logger.Info("not persisted")
	logger.Error("redeem failed",
		"user_id", "4b6f0c1e-0000-0000-0000-000000000001",
		"action", "redeem",
		"error", "backend unavailable",
		"latency_ms", 12.6,
		"reward_id", "r-1",
	)
	h.Stop()

	var logs []models.SystemLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	got := logs[0]
	if got.Level != "ERROR" || got.Message != "redeem failed" {
		t.Errorf("level/message = %s/%q", got.Level, got.Message)
	}
	if got.RequestID != "req-42" {
		t.Errorf("request_id = %q, want req-42", got.RequestID)
	}
	if got.UserID == nil || !strings.HasSuffix(*got.UserID, "0001") {
		t.Errorf("user_id = %v", got.UserID)
	}
	if got.Action != "redeem" || got.Error != "backend unavailable" || got.LatencyMs != 13 {
		t.Errorf("action/error/latency = %q/%q/%d", got.Action, got.Error, got.LatencyMs)
	}

	var extra map[string]interface{}
	if err := json.Unmarshal(got.Extra, &extra); err != nil {
		t.Fatalf("extra: %v", err)
	}
	if extra["reward_id"] != "r-1" {
		t.Errorf("extra = %v", extra)
	}
}

func TestPurgeRemovesOldLogs(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Now().UTC()
	logs := []models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -45), Level: "ERROR", Message: "old"},
		{Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}
	if err := db.Create(&logs).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if n := purge(db, 30); n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	var left []models.SystemLog
	if err := db.Find(&left).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(left) != 1 || left[0].Message != "recent" {
		t.Errorf("left = %+v", left)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)).With("component", "test")

	logger.Debug("dropped")
	logger.Info("hello")
	logger.Error("boom")

	if strings.Contains(info.String(), "dropped") {
		t.Error("debug record reached info handler")
	}
	if !strings.Contains(info.String(), "hello") || !strings.Contains(info.String(), "boom") {
		t.Errorf("info output = %s", info.String())
	}
	if strings.Contains(errs.String(), "hello") || !strings.Contains(errs.String(), `"component":"test"`) {
		t.Errorf("error output = %s", errs.String())
	}
}

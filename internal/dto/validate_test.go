package dto

import (
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestValidateCreateReport(t *testing.T) {
	valid := CreateReportRequest{
		Title:       "Basura en el río",
		Description: "Bolsas acumuladas en la orilla",
		Category:    "basura",
		Priority:    "alta",
		Location:    &Location{Latitude: ptr(-12.05), Longitude: ptr(-77.04)},
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	missing := valid
	missing.Location = nil
	err := Validate(missing)
	if err == nil || !strings.Contains(err.Error(), "location is required") {
		t.Fatalf("expected location error, got %v", err)
	}

	badPriority := valid
	badPriority.Priority = "urgente"
	err = Validate(badPriority)
	if err == nil || !strings.Contains(err.Error(), "priority must be one of") {
		t.Fatalf("expected priority error, got %v", err)
	}

	outOfRange := valid
	outOfRange.Location = &Location{Latitude: ptr(123.0), Longitude: ptr(0.0)}
	err = Validate(outOfRange)
	if err == nil || !strings.Contains(err.Error(), "latitude") {
		t.Fatalf("expected latitude error, got %v", err)
	}
}

func TestValidateRegister(t *testing.T) {
	err := Validate(RegisterRequest{Email: "not-an-email", Password: "short", FullName: "Ana"})
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "email must be a valid email") || !strings.Contains(msg, "password must be at least 8") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestToSnake(t *testing.T) {
	if got := toSnake("PointsRequired"); got != "points_required" {
		t.Errorf("got %s", got)
	}
}

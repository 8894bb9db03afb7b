package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/config"
	"github.com/ecociudad/ecociudad-backend/internal/database/dbtest"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/handlers"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/ecociudad/ecociudad-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		AppName:          "EcoCiudad",
		SupportEmail:     "soporte@ecociudad.test",
	}

	points := services.NewPointsService(db, 20)
	rewards := services.NewRewardService(db)
	h := Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		Health:    handlers.NewHealthHandler(db),
		Legal:     handlers.NewLegalHandler(cfg),
		Reports:   handlers.NewReportHandler(services.NewReportService(db, points), services.NewExportService(db)),
		Rewards:   handlers.NewRewardHandler(rewards, points),
		Content:   handlers.NewContentHandler(services.NewContentService(db, points)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(db, 10)),
	}

	app := fiber.New()
	app.Use(requestid.New())
	Setup(app, cfg, db, h)
	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, email string) dto.AuthResponse {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: email, Password: "reciclar123", FullName: "Vecina de prueba",
	})
	if status != http.StatusCreated {
		t.Fatalf("register status = %d: %s", status, body)
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func (s *testServer) promote(t *testing.T, resp dto.AuthResponse, role models.Role) {
	t.Helper()
	err := s.db.Model(&models.Profile{}).Where("id = ?", resp.User.ID).Update("role", role).Error
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
}

func reportBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Microbasural en el parque",
		"description": "Escombros y bolsas",
		"category":    "basura",
		"priority":    "alta",
		"location":    map[string]float64{"latitude": -33.45, "longitude": -70.66},
	}
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/health", "", nil)
	if status != http.StatusOK || !strings.Contains(string(body), `"db":"ok"`) {
		t.Errorf("health = %d %s", status, body)
	}

	status, body = s.do(t, http.MethodGet, "/api/legal/privacy", "", nil)
	if status != http.StatusOK || !strings.Contains(string(body), "EcoCiudad") {
		t.Errorf("privacy = %d", status)
	}

	status, _ = s.do(t, http.MethodGet, "/api/metrics", "", nil)
	if status != http.StatusOK {
		t.Errorf("metrics = %d", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/reports", "/api/rewards", "/api/me/activities", "/api/admin/dashboard"} {
		status, _ := s.do(t, http.MethodGet, path, "", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, status)
		}
	}
	status, _ := s.do(t, http.MethodGet, "/api/reports", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", status)
	}
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana@example.com")

	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "ana@example.com", Password: "reciclar123", FullName: "Ana",
	})
	if status != http.StatusConflict {
		t.Errorf("duplicate = %d %s, want 409", status, body)
	}

	status, body = s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "no-es-email", Password: "corta", FullName: "Ana",
	})
	if status != http.StatusBadRequest {
		t.Errorf("invalid = %d %s, want 400", status, body)
	}

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "ana@example.com", Password: "incorrecta",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", status)
	}
}

func TestCreateReportOverHTTP(t *testing.T) {
	s := newTestServer(t)
	citizen := s.register(t, "luis@example.com")

	status, body := s.do(t, http.MethodPost, "/api/reports", citizen.AccessToken, reportBody())
	if status != http.StatusCreated {
		t.Fatalf("create = %d %s", status, body)
	}
	var created dto.CreateReportResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.PointsEarned != 10 || created.Report.Status != models.StatusPendiente {
		t.Errorf("created = %+v", created)
	}

	noLocation := reportBody()
	delete(noLocation, "location")
	status, body = s.do(t, http.MethodPost, "/api/reports", citizen.AccessToken, noLocation)
	if status != http.StatusBadRequest || !strings.Contains(string(body), "location is required") {
		t.Errorf("no location = %d %s", status, body)
	}

	status, body = s.do(t, http.MethodGet, "/api/auth/me", citizen.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("me = %d %s", status, body)
	}
	var me dto.SessionResponse
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.Profile.Points != 10 {
		t.Errorf("points = %d, want 10", me.Profile.Points)
	}

	status, _ = s.do(t, http.MethodGet, "/api/reports/"+created.Report.ID.String(), citizen.AccessToken, nil)
	if status != http.StatusOK {
		t.Errorf("get = %d", status)
	}
	status, _ = s.do(t, http.MethodGet, "/api/reports/not-a-uuid", citizen.AccessToken, nil)
	if status != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", status)
	}
}

func TestAdminGates(t *testing.T) {
	s := newTestServer(t)
	citizen := s.register(t, "citizen@example.com")
	admin := s.register(t, "admin@example.com")
	s.promote(t, admin, models.RoleMunicipalAdmin)

	status, _ := s.do(t, http.MethodGet, "/api/admin/dashboard", citizen.AccessToken, nil)
	if status != http.StatusForbidden {
		t.Errorf("citizen dashboard = %d, want 403", status)
	}

	// The token still says citizen; the role is read from the profile.
	status, body := s.do(t, http.MethodGet, "/api/admin/dashboard", admin.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin dashboard = %d %s", status, body)
	}
	var stats dto.DashboardStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalUsers != 2 || len(stats.ByCategory) != 4 {
		t.Errorf("stats = %+v", stats)
	}

	status, body = s.do(t, http.MethodGet, "/api/admin/reports/export", admin.AccessToken, nil)
	if status != http.StatusOK || !strings.HasPrefix(string(body), "ID,Title,Category") {
		t.Errorf("export = %d %s", status, body)
	}

	path := "/api/admin/users/" + citizen.User.ID.String() + "/role"
	status, _ = s.do(t, http.MethodPut, path, admin.AccessToken, dto.SetRoleRequest{Role: models.RoleMunicipalAdmin})
	if status != http.StatusForbidden {
		t.Errorf("admin set role = %d, want 403", status)
	}

	s.promote(t, admin, models.RoleSuperAdmin)
	status, body = s.do(t, http.MethodPut, path, admin.AccessToken, dto.SetRoleRequest{Role: models.RoleMunicipalAdmin})
	if status != http.StatusOK {
		t.Errorf("super admin set role = %d %s", status, body)
	}
}

func TestRedeemOverHTTP(t *testing.T) {
	s := newTestServer(t)
	citizen := s.register(t, "sofia@example.com")
	admin := s.register(t, "gestor@example.com")
	s.promote(t, admin, models.RoleMunicipalAdmin)

	status, body := s.do(t, http.MethodPost, "/api/admin/rewards", admin.AccessToken, dto.CreateRewardRequest{
		Title: "Bolsa reutilizable", PointsRequired: 15, Category: models.RewardReconocimiento, IsActive: true,
	})
	if status != http.StatusCreated {
		t.Fatalf("create reward = %d %s", status, body)
	}
	var reward models.Reward
	if err := json.Unmarshal(body, &reward); err != nil {
		t.Fatalf("decode: %v", err)
	}

	redeemPath := "/api/rewards/" + reward.ID.String() + "/redeem"
	status, _ = s.do(t, http.MethodPost, redeemPath, citizen.AccessToken, nil)
	if status != http.StatusConflict {
		t.Errorf("redeem without points = %d, want 409", status)
	}

	status, body = s.do(t, http.MethodPost, "/api/admin/activities", admin.AccessToken, dto.CreditActivityRequest{
		UserID: citizen.User.ID, ActivityType: models.ActivityReciclaje, Description: "Entrega en punto limpio",
	})
	if status != http.StatusCreated {
		t.Fatalf("credit = %d %s", status, body)
	}

	status, body = s.do(t, http.MethodPost, redeemPath, citizen.AccessToken, nil)
	if status != http.StatusCreated {
		t.Fatalf("redeem = %d %s", status, body)
	}
	var redeemed dto.RedeemResponse
	if err := json.Unmarshal(body, &redeemed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if redeemed.Points != 0 {
		t.Errorf("balance = %d, want 0", redeemed.Points)
	}

	status, body = s.do(t, http.MethodGet, "/api/me/redemptions", citizen.AccessToken, nil)
	if status != http.StatusOK || !strings.Contains(string(body), "Bolsa reutilizable") {
		t.Errorf("redemptions = %d %s", status, body)
	}
}

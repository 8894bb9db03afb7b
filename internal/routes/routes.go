package routes

import (
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/config"
	"github.com/ecociudad/ecociudad-backend/internal/handlers"
	"github.com/ecociudad/ecociudad-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Legal     *handlers.LegalHandler
	Reports   *handlers.ReportHandler
	Rewards   *handlers.RewardHandler
	Content   *handlers.ContentHandler
	Dashboard *handlers.DashboardHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Protected routes get JWT + principal per group so public routes above
	// never see the JWT middleware.
	jwt := middleware.JWTProtected(cfg)
	session := middleware.LoadPrincipal(db)

	auth.Post("/logout", jwt, session, h.Auth.Logout)
	auth.Get("/me", jwt, session, h.Auth.Me)

	reports := api.Group("/reports", jwt, session)
	reports.Get("/", h.Reports.List)
	reports.Get("/mine", h.Reports.Mine)
	reports.Post("/", h.Reports.Create)
	reports.Get("/:id", h.Reports.Get)
	reports.Get("/:id/updates", h.Reports.ListUpdates)
	reports.Post("/:id/updates", h.Reports.PostUpdate)

	rewards := api.Group("/rewards", jwt, session)
	rewards.Get("/", h.Rewards.ListRewards)
	rewards.Post("/:id/redeem", h.Rewards.Redeem)

	me := api.Group("/me", jwt, session)
	me.Get("/activities", h.Rewards.ListActivities)
	me.Get("/redemptions", h.Rewards.ListRedemptions)

	content := api.Group("/content", jwt, session)
	content.Get("/", h.Content.List)
	content.Post("/:id/view", h.Content.View)
	content.Post("/:id/like", h.Content.Like)
	content.Post("/:id/complete", h.Content.Complete)

	admin := api.Group("/admin", jwt, session, middleware.AdminRequired())
	admin.Get("/dashboard", h.Dashboard.Dashboard)
	admin.Get("/stats", h.Dashboard.Stats)
	admin.Get("/reports/export", h.Reports.Export)
	admin.Put("/reports/:id/assign", h.Reports.Assign)
	admin.Post("/rewards", h.Rewards.CreateReward)
	admin.Put("/rewards/:id", h.Rewards.UpdateReward)
	admin.Put("/redemptions/:id", h.Rewards.AdvanceRedemption)
	admin.Post("/activities", h.Rewards.CreditActivity)
	admin.Post("/content", h.Content.Create)
	admin.Put("/content/:id/publish", h.Content.SetPublished)
	admin.Put("/users/:id/role", middleware.SuperAdminRequired(), h.Auth.SetRole)
}

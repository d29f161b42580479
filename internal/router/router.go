package router

import (
	"log/slog"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/database"
	"expense-tracker-api/internal/handlers"
	"expense-tracker-api/internal/middleware"
	"expense-tracker-api/internal/repositories"
	"expense-tracker-api/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New wires repositories, services, handlers and middleware into a
// configured Echo instance.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst))
	e.Use(echomw.CORS())

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	expenseRepo := repositories.NewExpenseRepository(db.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db.DB)

	// Services
	metrics := services.NewPrometheusMetrics()
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, blacklistedTokenRepo, passwordService, tokenService, logger)
	userService := services.NewUserService(userRepo)
	expenseService := services.NewExpenseService(expenseRepo, cfg.Budgets, metrics, logger)
	summaryService := services.NewSummaryService(expenseRepo, logger)
	alertService := services.NewAlertService(expenseRepo, cfg.Budgets, metrics, logger)
	importService := services.NewImportService(db, expenseRepo, cfg.Budgets, metrics, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, importService)
	dashboardHandler := handlers.NewDashboardHandler(summaryService, alertService, expenseService)
	healthHandler := handlers.NewHealthCheckHandler(db.DB)

	// Public endpoints
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	requireAuth := middleware.RequireAuth(tokenService, blacklistedTokenRepo)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	expenses := api.Group("/expenses", requireAuth)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("", expenseHandler.List)
	expenses.POST("/import", expenseHandler.Import)
	expenses.GET("/:id", expenseHandler.Get)
	expenses.PUT("/:id", expenseHandler.Update)
	expenses.DELETE("/:id", expenseHandler.Delete)

	api.GET("/dashboard", dashboardHandler.Dashboard, requireAuth)

	// Development-only seeding endpoints
	if cfg.IsDevelopment() {
		devHandler := handlers.NewDevHandler(expenseRepo, cfg.Budgets)
		api.POST("/dev/generate-test-data", devHandler.GenerateTestData, requireAuth)
	}

	return e
}

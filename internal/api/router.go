package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mbotrack/mbo-tracker/internal/api/handler"
	"github.com/mbotrack/mbo-tracker/internal/api/middleware"
	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
	"github.com/mbotrack/mbo-tracker/internal/core/service"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/config"
	mongorepo "github.com/mbotrack/mbo-tracker/internal/infrastructure/db/mongo"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/http/handlers"
	"github.com/mbotrack/mbo-tracker/pkg/logger"
)

// NewRouter builds the Echo instance with every route registered. The
// notification channels are injected so main can select real or no-op
// implementations by configuration.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mailer ports.Mailer, messenger ports.Messenger, dedup ports.DedupStore) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mbo"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	objectiveRepo := mongorepo.NewObjectiveRepository(db)

	notifier := service.NewNotifyService(userRepo, mailer, messenger, dedup, service.NotifyConfig{
		ObserverEmail: cfg.Notify.ObserverEmail,
		BaseURL:       cfg.BaseURL,
		Env:           cfg.Env,
	}, log)

	rules := domain.DefaultPointRules()
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	objectiveService := service.NewObjectiveService(objectiveRepo, userRepo, notifier, rules, log)
	userService := service.NewUserService(userRepo, objectiveRepo, log)
	dashboardService := service.NewDashboardService(userRepo, objectiveRepo, rules, log)

	authHandler := handler.NewAuthHandler(authService)
	objectiveHandler := handler.NewObjectiveHandler(objectiveService)
	userHandler := handler.NewUserHandler(userService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	reportHandler := handler.NewReportHandler(dashboardService, objectiveService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	managerOnly := middleware.RBAC(domain.RoleManager)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Objectives ---
	v1 := e.Group("/v1", authMiddleware)
	v1.POST("/objectives", objectiveHandler.Create)
	v1.GET("/objectives", objectiveHandler.ListMine)
	v1.GET("/objectives/pending", objectiveHandler.ListPending, managerOnly)
	v1.GET("/objectives/:id", objectiveHandler.Get)
	v1.PUT("/objectives/:id", objectiveHandler.Update)
	v1.POST("/objectives/:id/review", objectiveHandler.Review, managerOnly)
	v1.DELETE("/objectives/:id", objectiveHandler.Delete)
	v1.GET("/team/objectives", objectiveHandler.ListTeam)

	// --- Dashboard ---
	v1.GET("/dashboard/summary", dashboardHandler.Summary)
	v1.GET("/dashboard/leaderboard", dashboardHandler.Leaderboard)

	// --- Users ---
	v1.PUT("/users/me/notifications", userHandler.SetNotifications)
	v1.GET("/users", userHandler.List)
	v1.POST("/users", userHandler.Create, managerOnly)
	v1.GET("/users/:id", userHandler.Get)
	v1.PUT("/users/:id", userHandler.Update)
	v1.DELETE("/users/:id", userHandler.Delete, managerOnly)

	// --- Reports (manager only) ---
	v1.GET("/reports/leaderboard.csv", reportHandler.LeaderboardCSV, managerOnly)
	v1.GET("/reports/leaderboard.xlsx", reportHandler.LeaderboardXLSX, managerOnly)
	v1.GET("/reports/objectives.csv", reportHandler.TeamCSV, managerOnly)
	v1.GET("/reports/objectives.xlsx", reportHandler.TeamXLSX, managerOnly)

	// --- Operational surfaces (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

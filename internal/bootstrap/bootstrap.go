package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/burakc/scholarhub/internal/app/controllers"
	appMigrations "github.com/burakc/scholarhub/internal/app/migrations"
	appRepos "github.com/burakc/scholarhub/internal/app/repositories"
	appRoutes "github.com/burakc/scholarhub/internal/app/routes"
	appServices "github.com/burakc/scholarhub/internal/app/services"
	"github.com/burakc/scholarhub/internal/config"
	"github.com/burakc/scholarhub/internal/db"
	"github.com/burakc/scholarhub/internal/jobs"
	appMiddleware "github.com/burakc/scholarhub/internal/middleware"
	pkgAuth "github.com/burakc/scholarhub/internal/pkg/auth"
	"github.com/burakc/scholarhub/internal/pkg/filestorage"
	"github.com/burakc/scholarhub/internal/pkg/helpers"
	"github.com/burakc/scholarhub/internal/pkg/logger"
	"github.com/burakc/scholarhub/internal/pkg/websocket"
	"github.com/burakc/scholarhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	FileStorage            *filestorage.LocalStorage
	Hub                    *websocket.Hub
	RedisClient            *redis.Client
	AuthService            appServices.AuthService
	UserService            appServices.UserService
	ScholarshipService     appServices.ScholarshipService
	ApplicationService     appServices.ApplicationService
	NotificationService    appServices.NotificationService
	AuthController         *appControllers.AuthController
	UserController         *appControllers.UserController
	ScholarshipController  *appControllers.ScholarshipController
	ApplicationController  *appControllers.ApplicationController
	NotificationController *appControllers.NotificationController
	WSHandler              *websocket.Handler
	AuthMiddleware         *appMiddleware.AuthMiddleware
	DeadlineReminder       *jobs.DeadlineReminder
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, dbPool, cfg, lgr); err != nil {
		// Seeding failure is not fatal; the API still serves existing data.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// background job.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	redisClient, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory rate limiting")
	}
	deps.RedisClient = redisClient

	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(lgr)

	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		lgr,
	)
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.NotificationService, lgr)
	deps.ScholarshipService = appServices.NewScholarshipService(
		deps.Repos.ScholarshipRepository,
		deps.Repos.SavedRepository,
		deps.Repos.UserRepository,
		deps.NotificationService,
		lgr,
	)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.ScholarshipRepository,
		deps.NotificationService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.FileStorage, lgr)
	deps.ScholarshipController = appControllers.NewScholarshipController(deps.ScholarshipService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	if cfg.Jobs.DeadlineReminderEnabled {
		deps.DeadlineReminder = jobs.NewDeadlineReminder(
			deps.Repos.ScholarshipRepository,
			deps.Repos.SavedRepository,
			deps.Repos.UserRepository,
			deps.Repos.NotificationRepository,
			deps.NotificationService,
			helpers.ParseDuration(cfg.Jobs.DeadlineReminderInterval, 1*time.Hour),
			helpers.ParseDuration(cfg.Jobs.DeadlineReminderWindow, 72*time.Hour),
			lgr,
		)
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupSwagger(router)

	limits := appRoutes.RateLimits{}
	if cfg.RateLimit.Enabled {
		limits.Limiter = buildLimiter(deps.RedisClient, lgr)
		limits.AuthPerWindow = cfg.RateLimit.AuthPerMinute
		limits.APIPerWindow = cfg.RateLimit.APIPerMinute
		limits.Window = helpers.ParseDuration(cfg.RateLimit.Window, time.Minute)
	}

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ScholarshipController,
		deps.ApplicationController,
		deps.NotificationController,
		deps.WSHandler,
		deps.AuthMiddleware,
		limits,
	)

	return router
}

func buildLimiter(redisClient *redis.Client, lgr zerolog.Logger) appMiddleware.Limiter {
	if redisClient != nil {
		lgr.Info().Msg("Using Redis rate limiter")
		return appMiddleware.NewRedisLimiter(redisClient)
	}
	lgr.Info().Msg("Using in-memory rate limiter")
	return appMiddleware.NewMemoryLimiter()
}

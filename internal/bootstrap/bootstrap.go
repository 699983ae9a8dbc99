package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yusuf/schoolsphere/docs" // Import generated swagger docs
	appControllers "github.com/yusuf/schoolsphere/internal/app/controllers"
	appMigrations "github.com/yusuf/schoolsphere/internal/app/migrations"
	appRepos "github.com/yusuf/schoolsphere/internal/app/repositories"
	appRoutes "github.com/yusuf/schoolsphere/internal/app/routes"
	appServices "github.com/yusuf/schoolsphere/internal/app/services"
	"github.com/yusuf/schoolsphere/internal/config"
	"github.com/yusuf/schoolsphere/internal/db"
	appMiddleware "github.com/yusuf/schoolsphere/internal/middleware"
	pkgAuth "github.com/yusuf/schoolsphere/internal/pkg/auth"
	"github.com/yusuf/schoolsphere/internal/pkg/drive"
	"github.com/yusuf/schoolsphere/internal/pkg/helpers"
	"github.com/yusuf/schoolsphere/internal/pkg/logger"
	"github.com/yusuf/schoolsphere/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services           *appServices.Services
	AuthController     *appControllers.AuthController
	WorkItemController *appControllers.WorkItemController
	WorkFileController *appControllers.WorkFileController
	FeedbackController *appControllers.FeedbackController
	ProgressController *appControllers.ProgressController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	Store              drive.Client
	Logger             zerolog.Logger
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

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create Default Data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Initialize work file storage.
	// Configure baseURL to match the static file serving endpoint.
	baseURL := cfg.Storage.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port + "/work-files"
	}
	localDrive, err := drive.NewLocalDrive(cfg.Storage.Path, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize work file storage")
		return nil, fmt.Errorf("failed to initialize work file storage: %w", err)
	}
	// All providers go through the auth-retry decorator so an in-flight
	// credential expiry gets one transparent refresh-and-retry.
	deps.Store = drive.WithAuthRetry(localDrive, drive.NewStaticTokenSource(""))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(
		deps.Repos,
		deps.Store,
		deps.JWTService,
		cfg.Uploads.MaxFiles,
		cfg.Uploads.MaxFileSizeMB,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth)
	deps.WorkItemController = appControllers.NewWorkItemController(deps.Services.WorkItem)
	deps.WorkFileController = appControllers.NewWorkFileController(deps.Services.Upload)
	deps.FeedbackController = appControllers.NewFeedbackController(deps.Services.Feedback)
	deps.ProgressController = appControllers.NewProgressController(deps.Services.Progress)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.WorkItemController,
		deps.WorkFileController,
		deps.FeedbackController,
		deps.ProgressController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

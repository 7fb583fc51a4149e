package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/happysmilecode/yumenosite/internal/app/controllers"
	appMigrations "github.com/happysmilecode/yumenosite/internal/app/migrations"
	appRepos "github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/app/repositories/memory"
	appRoutes "github.com/happysmilecode/yumenosite/internal/app/routes"
	appServices "github.com/happysmilecode/yumenosite/internal/app/services"
	"github.com/happysmilecode/yumenosite/internal/config"
	"github.com/happysmilecode/yumenosite/internal/db"
	"github.com/happysmilecode/yumenosite/internal/pkg/blobstore"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService     appServices.CourseService
	MembershipService appServices.MembershipService
	AssessmentService appServices.AssessmentService
	ReviewService     appServices.ReviewService
	UserService       appServices.UserService

	CourseController     *appControllers.CourseController
	DocumentController   *appControllers.DocumentController
	AssessmentController *appControllers.AssessmentController
	UserController       *appControllers.UserController

	Repos     *appRepos.Repositories
	BlobStore blobstore.Store
	Logger    zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
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

// SetupRepositories selects the storage driver and, for Postgres, runs the
// startup migration. The returned pool is nil for the memory driver.
func SetupRepositories(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Info().Msg("Using in-memory storage driver")
		return memory.NewRepositories(), nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database)
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}

	return appRepos.NewRepositories(dbPool), dbPool, nil
}

// BuildDependencies initializes the blob store, services and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	store, err := blobstore.NewLocalStore(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize blob store")
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	deps.BlobStore = store

	deps.CourseService = appServices.NewCourseService(repos.Courses)
	deps.MembershipService = appServices.NewMembershipService(repos.Courses, repos.Users)
	deps.AssessmentService = appServices.NewAssessmentService(repos.Assessments, repos.Courses)
	deps.ReviewService = appServices.NewReviewService(repos.Courses)
	deps.UserService = appServices.NewUserService(repos.Users, deps.MembershipService)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.MembershipService, deps.ReviewService)
	deps.DocumentController = appControllers.NewDocumentController(deps.CourseService, deps.BlobStore)
	deps.AssessmentController = appControllers.NewAssessmentController(deps.AssessmentService, deps.BlobStore)
	deps.UserController = appControllers.NewUserController(deps.UserService)

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

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.DocumentController,
		deps.AssessmentController,
		deps.UserController,
	)

	return router
}

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/learncircle/internal/app/controllers"
	appMigrations "github.com/yigit/learncircle/internal/app/migrations"
	appRepos "github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/app/repositories/inmem"
	appRoutes "github.com/yigit/learncircle/internal/app/routes"
	appServices "github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/config"
	"github.com/yigit/learncircle/internal/db"
	appMiddleware "github.com/yigit/learncircle/internal/middleware"
	pkgAuth "github.com/yigit/learncircle/internal/pkg/auth"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
	"github.com/yigit/learncircle/internal/pkg/logger"
	"github.com/yigit/learncircle/internal/pkg/websocket"
	"github.com/yigit/learncircle/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub
	Logger      zerolog.Logger

	AuthController       *appControllers.AuthController
	CircleController     *appControllers.CircleController
	ResourceController   *appControllers.ResourceController
	TaskController       *appControllers.TaskController
	DiscussionController *appControllers.DiscussionController
	UserController       *appControllers.UserController
	WSHandler            *websocket.Handler
	AuthMiddleware       *appMiddleware.AuthMiddleware
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"), ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(level)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies migrations.
// It returns a nil pool when the in-memory store is configured.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.UsesMemoryStore() {
		lgr.Warn().Msg("Using in-memory store, data will not survive a restart")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// BuildDependencies initializes repositories, services and controllers.
// A nil pool selects the in-memory repositories.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if dbPool != nil {
		deps.Repos = appRepos.NewRepositories(dbPool)
	} else {
		deps.Repos = inmem.NewRepositories(inmem.NewStore())
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(lgr)
	deps.Services = appServices.NewServices(deps.Repos, deps.FileStorage, deps.JWTService, deps.Hub, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService)
	deps.CircleController = appControllers.NewCircleController(deps.Services.CircleService)
	deps.ResourceController = appControllers.NewResourceController(deps.Services.ResourceService, cfg.Server.MaxUploadBytes)
	deps.TaskController = appControllers.NewTaskController(deps.Services.TaskService)
	deps.DiscussionController = appControllers.NewDiscussionController(deps.Services.CommentService, deps.Services.MessageService)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService)
	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.Repos.CircleRepository, lgr)

	return deps, nil
}

// SeedIfEnabled creates demo data when seed.enabled is set. Failures are logged only.
func SeedIfEnabled(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.Enabled {
		return
	}
	if err := seed.CreateDefaultData(ctx, deps.Repos.UserRepository, deps.Services, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	appMiddleware.RegisterValidatorTagNames()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	if cfg.Server.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}

	appRoutes.SetupSwagger(router, cfg.Server.PublicURL)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CircleController,
		deps.ResourceController,
		deps.TaskController,
		deps.DiscussionController,
		deps.UserController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.Static("/uploads", deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	return router
}

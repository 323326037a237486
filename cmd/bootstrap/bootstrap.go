package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physiocare/config"
	deliveryHttp "physiocare/internal/delivery/http"
	"physiocare/internal/delivery/http/handler"
	"physiocare/internal/delivery/http/middleware"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/infrastructure/cache"
	"physiocare/internal/infrastructure/database"
	"physiocare/internal/infrastructure/messaging"
	"physiocare/internal/infrastructure/storage"
	"physiocare/internal/infrastructure/tracking"
	"physiocare/internal/repository"
	"physiocare/internal/service"
	"physiocare/internal/usecase"
	"physiocare/pkg/jwt"
	"physiocare/pkg/metrics"
	"physiocare/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   messaging.EventPublisher
	Audit       service.AuditService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	logrus.Info("Configuration loaded successfully")

	// Initialize error reporting
	if err := tracking.Init(cfg.Sentry, cfg.App); err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize event publisher
	app.Publisher = messaging.NewEventPublisher(cfg.Kafka)

	// Initialize all layers
	app.Audit = service.NewAuditService(logrus.StandardLogger(), repository.NewAuditLogRepository(), app.Publisher)

	server, err := initializeServer(cfg, db, redisClient, app.Audit)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// newImageStore picks the upload backend. The returned file system is nil
// when images are not served by this process.
func newImageStore(cfg config.UploadConfig) (storage.ImageStore, http.FileSystem, error) {
	if cfg.Driver == "s3" {
		store, err := storage.NewS3Store(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	store, err := storage.NewLocalStore(afero.NewOsFs(), cfg.Dir)
	if err != nil {
		return nil, nil, err
	}
	return store, store.FileSystem(), nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, auditService service.AuditService) (*http.Server, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.Session)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	metrics.Init()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize storage
	imageStore, uploads, err := newImageStore(cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	physioRepo := repository.NewPhysioRepository()
	recordRepo := repository.NewRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	sessionRepo := repository.NewSessionRepository(redisClient)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, customValidator, userRepo, sessionRepo, auditService, jwtService)
	patientUsecase := usecase.NewPatientUsecase(db, log, customValidator, userRepo, patientRepo, auditService, imageStore)
	physioUsecase := usecase.NewPhysioUsecase(db, log, customValidator, userRepo, physioRepo, auditService, imageStore)
	recordUsecase := usecase.NewRecordUsecase(db, log, customValidator, recordRepo, patientRepo, physioRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Seed the first administrator
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authUsecase.EnsureAdmin(seedCtx, cfg.Admin.Login, cfg.Admin.Password); err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Initialize views
	renderer, err := view.NewTemplateRenderer(log, middleware.RequestIdentity)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, jwtService, renderer, log)
	menuHandler := handler.NewMenuHandler(renderer, log)
	patientHandler := handler.NewPatientHandler(patientUsecase, renderer, log, cfg.Upload.MaxBytes)
	physioHandler := handler.NewPhysioHandler(physioUsecase, renderer, log, cfg.Upload.MaxBytes)
	recordHandler := handler.NewRecordHandler(recordUsecase, patientUsecase, physioUsecase, renderer, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, renderer, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase, renderer, log, jwtService.CookieName())
	roleGuard := middleware.NewRoleGuard(renderer)

	healthChecks := map[string]deliveryHttp.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}

	// Initialize router
	router := deliveryHttp.NewRouter(
		log,
		authHandler,
		menuHandler,
		patientHandler,
		physioHandler,
		recordHandler,
		auditLogHandler,
		authMiddleware,
		roleGuard,
		uploads,
		healthChecks,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, kafka)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	// Let queued events reach the broker before closing the writer
	if app.Audit != nil {
		app.Audit.Wait()
	}

	// Close Kafka writer
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Warnf("Failed to close event publisher: %+v", err)
		}
	}

	tracking.Flush()
}

// @title           Issue Workflow API
// @version         1.0
// @description     이슈 템플릿, 상태 전이, 필드 검증 API
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /api/workflow

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "issue-workflow-api/docs" // Swagger docs import

	"issue-workflow-api/internal/client"
	"issue-workflow-api/internal/config"
	"issue-workflow-api/internal/database"
	"issue-workflow-api/internal/job"
	"issue-workflow-api/internal/metrics"
	"issue-workflow-api/internal/middleware"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/router"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "issue-workflow-api",
		Short:        "Issue workflow service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to the YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(configPath, serve)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(configPath, migrate)
		},
	})
	return root
}

// runWith loads configuration and a logger, then hands both to fn
func runWith(configPath string, fn func(*config.Config, *zap.Logger) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := fn(cfg, logger); err != nil {
		logger.Error("Command failed", zap.Error(err))
		return err
	}
	return nil
}

func connectDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return database.Connect(ctx, database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 5*time.Second, 2*time.Minute, logger)
}

func migrate(cfg *config.Config, logger *zap.Logger) error {
	db, err := connectDB(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return database.AutoMigrate(db, logger)
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Issue Workflow Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("auth_api_url", cfg.AuthAPI.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db, logger); err != nil {
		return err
	}

	m := metrics.New(logger)
	if err := database.RegisterMetricsCallbacks(db, m, logger); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	statsDone := database.StartDBStatsCollector(db, m, 15*time.Second)
	defer close(statsDone)

	// redis is optional: snapshots fall back to per-process loading
	var rdb *redis.Client
	if rdb, err = database.NewRedis(cfg.Redis, logger); err != nil {
		logger.Warn("Redis unavailable, snapshot cache disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	cache := repository.NewGraphCache(repository.NewSnapshotRepository(db), rdb, cfg.Redis.CacheTTL, m, logger)

	var validator middleware.TokenValidator
	if cfg.AuthAPI.BaseURL != "" {
		validator = client.NewAuthClient(cfg.AuthAPI.BaseURL, cfg.AuthAPI.Timeout, logger, m)
		logger.Info("Token validation delegated to auth service", zap.String("auth_api_url", cfg.AuthAPI.BaseURL))
	}

	r := router.Setup(router.Config{
		DB:             db,
		Redis:          rdb,
		Logger:         logger,
		Cache:          cache,
		CacheTTL:       cfg.Redis.CacheTTL,
		JWTSecret:      cfg.JWT.Secret,
		TokenValidator: validator,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
	})

	lockSync := job.NewLockSyncJob(
		repository.NewTemplateRepository(db),
		repository.NewIssueRepository(db),
		cache,
		m,
		logger,
	)
	scheduler, err := job.Start(cfg.Jobs.LockSyncSchedule, lockSync, logger)
	if err != nil {
		return fmt.Errorf("invalid lock sync schedule %q: %w", cfg.Jobs.LockSyncSchedule, err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Issue Workflow Service started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
	return nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}

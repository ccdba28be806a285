package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toolwatch/internal/api/config"
	delivery "toolwatch/internal/api/delivery/http"
	_ "toolwatch/internal/api/docs"
	"toolwatch/internal/api/repository"
	"toolwatch/internal/api/service"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/postgres"
	"toolwatch/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var loggerOpts []logger.Option
	if cfg.Logger.File != "" {
		loggerOpts = append(loggerOpts, logger.WithRotation(
			cfg.Logger.File,
			cfg.Logger.MaxSizeMB,
			cfg.Logger.MaxBackups,
			cfg.Logger.MaxAgeDays,
			cfg.Logger.CompressBackup,
		))
	}
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding, loggerOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	recordRepo := repository.NewExecutionRecordRepository(db.DB)
	toolRepo := repository.NewToolRepository(db.DB)

	// Initialize services
	var statsCacheTTL time.Duration
	if cfg.Executions.StatsCacheTTL != "" {
		statsCacheTTL, err = time.ParseDuration(cfg.Executions.StatsCacheTTL)
		if err != nil {
			appLogger.Fatal("Invalid stats cache TTL", logger.ErrorField(err))
		}
	}
	executionSvc := service.NewExecutionService(recordRepo, appLogger, service.ExecutionServiceOptions{
		DefaultPageSize: cfg.Executions.DefaultPageSize,
		MaxPageSize:     cfg.Executions.MaxPageSize,
		StatsCacheTTL:   statsCacheTTL,
	})
	toolSvc := service.NewToolService(toolRepo, redisClient.Client, appLogger, cfg.Redis.StreamMaxLen)

	// Start retention sweeps
	if cfg.Retention.Enabled {
		retentionSvc, err := service.NewRetentionService(recordRepo, appLogger, cfg.Retention.Schedule, cfg.Retention.MaxAge)
		if err != nil {
			appLogger.Fatal("Invalid retention configuration", logger.ErrorField(err))
		}
		go retentionSvc.Start(ctx)
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	executionHandler := delivery.NewExecutionHandler(executionSvc, appLogger)
	executionsGroup := apiV1.Group("/executions")
	executionHandler.RegisterRoutes(executionsGroup)

	toolHandler := delivery.NewToolHandler(toolSvc, appLogger)
	toolsGroup := apiV1.Group("/tools")
	toolHandler.RegisterRoutes(toolsGroup)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Tool Execution API
// @version 1.0
// @description API for the tool registry and its execution log.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}

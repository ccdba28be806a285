package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"toolwatch/internal/runner/config"
	"toolwatch/internal/runner/delivery/consumer"
	"toolwatch/internal/runner/repository"
	"toolwatch/internal/runner/security"
	"toolwatch/internal/runner/service"
	"toolwatch/internal/runner/strategy"
	"toolwatch/pkg/common"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/postgres"
	"toolwatch/pkg/redis"
	"toolwatch/pkg/telegram"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the runner service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	appLogger.Info("Starting Runner Service", logger.Field("name", cfg.App.Name))

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

	// Create the consumer group if it doesn't exist
	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamToolInvocation, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	toolRepo := repository.NewToolRepository(db.DB)
	recordRepo := repository.NewExecutionRecordRepository(db.DB)

	// Initialize the command guardrail
	guardrail, err := security.NewGuardrail(cfg.Security.ExtraPatterns)
	if err != nil {
		appLogger.Fatal("Failed to initialize guardrail", logger.ErrorField(err))
	}

	// Telegram notifications are optional; an empty token disables them.
	var telegramNotifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize strategies
	strategies := []strategy.ToolExecutionStrategy{
		strategy.NewCommandStrategy(appLogger, cfg.Runner.Shell),
		strategy.NewHTTPStrategy(appLogger),
	}

	// Initialize the runner service
	runnerSvc := service.NewRunnerService(
		redisClient.Client,
		toolRepo,
		recordRepo,
		guardrail,
		telegramNotifier,
		appLogger,
		strategies,
		service.RunnerServiceOptions{
			DefaultToolTimeout: cfg.Runner.DefaultToolTimeout,
			NotifyOnBlock:      cfg.Security.NotifyOnBlock,
			NotifyOnFailure:    cfg.Runner.NotifyOnFailure,
		},
	)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, runnerSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Runner service started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down runner service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Runner service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "runner-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-runner.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing runner-service CLI: %s\n", err)
		os.Exit(1)
	}
}

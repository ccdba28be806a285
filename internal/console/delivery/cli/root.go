package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toolwatch/internal/console/aggregator"
	"toolwatch/internal/console/config"
	"toolwatch/pkg/clipboard"
	"toolwatch/pkg/logger"
)

var configPath string

// console bundles everything a command needs for one invocation.
type console struct {
	cfg  *config.Config
	log  *logger.Logger
	agg  *aggregator.Aggregator
	clip *clipboard.Writer
}

// NewRootCommand builds the console command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "console",
		Short:         "Operator console for the tool execution log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-console.yaml", "Path to the configuration file")

	rootCmd.AddCommand(
		newListCommand(),
		newStatsCommand(),
		newExportCommand(),
		newCopyCommand(),
		newWatchCommand(),
	)

	return rootCmd
}

func newConsole() (*console, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

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
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var timeout time.Duration
	if cfg.Platform.Timeout != "" {
		timeout, err = time.ParseDuration(cfg.Platform.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid platform timeout: %w", err)
		}
	}

	client := aggregator.NewClient(aggregator.ClientConfig{
		BaseURL:             cfg.Platform.BaseURL,
		Timeout:             timeout,
		MaxRequestPerMinute: cfg.Platform.MaxRequestPerMinute,
	}, appLogger)

	return &console{
		cfg:  cfg,
		log:  appLogger,
		agg:  aggregator.New(client, appLogger),
		clip: clipboard.NewWriter(),
	}, nil
}

func (c *console) close() {
	_ = c.log.Sync()
}

// addFilterFlags registers the shared filter flags on cmd.
func addFilterFlags(cmd *cobra.Command, search, status, tool *string) {
	cmd.Flags().StringVarP(search, "search", "s", "", "Case-insensitive text over tool name, command, stdout and stderr")
	cmd.Flags().StringVar(status, "status", "", "Outcome filter: any, success or failure")
	cmd.Flags().StringVarP(tool, "tool", "t", "", "Exact tool name")
}

// buildCriteria validates the filter flags into criteria.
func buildCriteria(search, status, tool string) (aggregator.FilterCriteria, error) {
	statusFilter, err := aggregator.ParseStatusFilter(status)
	if err != nil {
		return aggregator.FilterCriteria{}, err
	}
	return aggregator.FilterCriteria{
		Search: search,
		Status: statusFilter,
		Tool:   tool,
	}, nil
}

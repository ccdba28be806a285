package config

import (
	"toolwatch/pkg/config"
)

// Executions holds the settings for serving and summarizing the log.
type Executions struct {
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
	StatsCacheTTL   string `mapstructure:"stats_cache_ttl"`
}

// Retention holds the execution record retention sweep settings.
type Retention struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
	MaxAge   string `mapstructure:"max_age"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Executions Executions      `mapstructure:"executions"`
	Retention  Retention       `mapstructure:"retention"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

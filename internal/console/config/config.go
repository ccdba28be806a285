package config

import (
	"toolwatch/pkg/config"
)

// Platform holds the settings for the platform API the console reads from.
type Platform struct {
	BaseURL             string `mapstructure:"base_url"`
	Timeout             string `mapstructure:"timeout"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Export holds export output settings.
type Export struct {
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
}

// Watch holds the polling loop settings.
type Watch struct {
	Interval                string `mapstructure:"interval"`
	FetchLimit              int    `mapstructure:"fetch_limit"`
	AlertFailureRatePercent int    `mapstructure:"alert_failure_rate_percent"`
}

// Config holds the full configuration for the console.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Platform Platform        `mapstructure:"platform"`
	Export   Export          `mapstructure:"export"`
	Watch    Watch           `mapstructure:"watch"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the console configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import (
	"time"

	"toolwatch/pkg/config"
)

// Runner holds runner-specific configuration.
type Runner struct {
	StreamReadTimeout  time.Duration `mapstructure:"stream_read_timeout"`
	DefaultToolTimeout time.Duration `mapstructure:"default_tool_timeout"`
	Shell              string        `mapstructure:"shell"`
	NotifyOnFailure    bool          `mapstructure:"notify_on_failure"`
}

// Security holds the command guardrail configuration. ExtraPatterns are
// appended to the built-in deny list.
type Security struct {
	ExtraPatterns []string `mapstructure:"extra_patterns"`
	NotifyOnBlock bool     `mapstructure:"notify_on_block"`
}

// Config holds the full configuration for the runner service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Runner   Runner          `mapstructure:"runner"`
	Security Security        `mapstructure:"security"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the runner configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the server.
type Config struct {
	DatabaseURL         string        `mapstructure:"database_url"`
	HTTPAddr            string        `mapstructure:"http_addr"`
	HorizonDays         int           `mapstructure:"horizon_days"`
	MaterializeInterval time.Duration `mapstructure:"materialize_interval"`
	SeedDemoData        bool          `mapstructure:"seed_demo_data"`
}

// Load reads configuration from environment variables (TEAMTASKS_ prefix)
// with sane defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("teamtasks")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database_url", "teamtasks.db")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("horizon_days", 30)
	v.SetDefault("materialize_interval", "6h")
	v.SetDefault("seed_demo_data", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HorizonDays <= 0 {
		return cfg, fmt.Errorf("horizon_days must be positive, got %d", cfg.HorizonDays)
	}
	if cfg.MaterializeInterval < 0 {
		return cfg, fmt.Errorf("materialize_interval must not be negative")
	}

	return cfg, nil
}

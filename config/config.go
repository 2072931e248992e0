// Package config loads and validates backtest run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/sierrabt/market"
)

// Config is the complete configuration for one backtest run.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Run      RunConfig      `json:"run" yaml:"run"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// DataConfig locates and decodes the SCID input.
type DataConfig struct {
	Path       string  `json:"path" yaml:"path"`
	PriceScale float64 `json:"price_scale,omitempty" yaml:"price_scale,omitempty"` // 0.01 for integer x100 feeds
}

// RunConfig holds the execution parameters.
type RunConfig struct {
	Mode       string  `json:"mode" yaml:"mode"` // "bars" or "ticks"
	Interval   string  `json:"interval,omitempty" yaml:"interval,omitempty"`
	Commission float64 `json:"commission" yaml:"commission"`
	PointValue float64 `json:"point_value" yaml:"point_value"`
	BatchSize  int     `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
	NoCloseEnd bool    `json:"no_close_end,omitempty" yaml:"no_close_end,omitempty"`
}

// StrategyConfig selects and parameterizes the strategy.
type StrategyConfig struct {
	Name string `json:"name" yaml:"name"`
	Fast int    `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow int    `json:"slow,omitempty" yaml:"slow,omitempty"`
}

// JournalConfig controls result persistence.
type JournalConfig struct {
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesCSV string `json:"trades_csv,omitempty" yaml:"trades_csv,omitempty"`
	EquityCSV string `json:"equity_csv,omitempty" yaml:"equity_csv,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // "json" or "text"
}

// Load reads path (YAML, JSON fallback), applies env overrides and
// validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIERRABT_DATA"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("SIERRABT_DB"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("SIERRABT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for a runnable backtest.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	if c.Data.PriceScale < 0 {
		return fmt.Errorf("data.price_scale must be non-negative")
	}

	switch strings.ToLower(c.Run.Mode) {
	case "bars":
		if _, err := market.IntervalSeconds(c.Run.Interval); err != nil {
			return err
		}
	case "ticks":
		if c.Run.BatchSize < 0 {
			return fmt.Errorf("run.batch_size must be non-negative")
		}
	default:
		return fmt.Errorf("run.mode must be \"bars\" or \"ticks\", got %q", c.Run.Mode)
	}

	if c.Run.Commission < 0 {
		return fmt.Errorf("run.commission must be non-negative")
	}
	if c.Run.PointValue <= 0 {
		return fmt.Errorf("run.point_value must be positive")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	return nil
}

// Default returns a configuration with ES-style defaults.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Mode:       "bars",
			Interval:   "5m",
			Commission: 0.0,
			PointValue: 50.0,
			BatchSize:  100_000,
		},
		Strategy: StrategyConfig{
			Name: "noop",
			Fast: 20,
			Slow: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

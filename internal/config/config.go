package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the market fetcher application.
type Config struct {
	// Provider endpoint (configurable for testing)
	YahooBaseURL string `mapstructure:"yahoo_base_url"`

	// Transport settings
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Batch settings
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	StorePath      string `mapstructure:"store_path"`
	LogLevel       string `mapstructure:"log_level"`

	// Items to fetch in batch mode
	OptionSymbols []string `mapstructure:"option_symbols"`
	ChartSymbols  []string `mapstructure:"chart_symbols"`
	ChartRange    string   `mapstructure:"chart_range"`
	ChartInterval string   `mapstructure:"chart_interval"`
}

// Load reads configuration from a .env file, environment variables and an
// optional config file. Environment variables take precedence over config
// file values.
//
// Recognised environment variables:
//   - YAHOO_BASE_URL (optional, defaults to production)
//   - MARKETFETCH_USER_AGENT
//   - MARKETFETCH_REQUEST_TIMEOUT (Go duration, e.g. 10s)
//   - MARKETFETCH_MAX_CONCURRENCY
//   - MARKETFETCH_STORE_PATH (optional, enables the snapshot store)
//   - MARKETFETCH_LOG_LEVEL (debug, info, warn, error)
//   - OPTION_SYMBOLS, CHART_SYMBOLS (comma separated)
//   - CHART_RANGE, CHART_INTERVAL
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("user_agent", "marketfetch/1.0")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("max_concurrency", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("chart_range", "1mo")
	v.SetDefault("chart_interval", "1d")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.marketfetch")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("yahoo_base_url", "YAHOO_BASE_URL")
	v.BindEnv("user_agent", "MARKETFETCH_USER_AGENT")
	v.BindEnv("request_timeout", "MARKETFETCH_REQUEST_TIMEOUT")
	v.BindEnv("max_concurrency", "MARKETFETCH_MAX_CONCURRENCY")
	v.BindEnv("store_path", "MARKETFETCH_STORE_PATH")
	v.BindEnv("log_level", "MARKETFETCH_LOG_LEVEL")
	v.BindEnv("option_symbols", "OPTION_SYMBOLS")
	v.BindEnv("chart_symbols", "CHART_SYMBOLS")
	v.BindEnv("chart_range", "CHART_RANGE")
	v.BindEnv("chart_interval", "CHART_INTERVAL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.OptionSymbols = normalizeSymbols(config.OptionSymbols)
	config.ChartSymbols = normalizeSymbols(config.ChartSymbols)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if c.MaxConcurrency <= 0 {
		problems = append(problems, "max_concurrency must be positive")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// ParseLogLevel maps a level name to its slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

// normalizeSymbols splits comma-separated entries (as produced by a single
// environment variable), trims and upper-cases them, and drops duplicates.
func normalizeSymbols(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range in {
		for _, s := range strings.Split(entry, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

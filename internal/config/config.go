// Package config provides configuration management for the trading coach.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Account   AccountConfig   `mapstructure:"account"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Log       LogConfig       `mapstructure:"log"`

	// Dir is the directory the configuration was resolved from. Files that
	// live beside the config, such as the journal database, are anchored
	// here.
	Dir string `mapstructure:"-"`
}

// AccountConfig holds the trading account parameters.
type AccountConfig struct {
	Balance  float64 `mapstructure:"balance"`
	Currency string  `mapstructure:"currency"`
}

// LimitsConfig holds the loss-limit circuit breaker percentages. Zero
// disables a limit.
type LimitsConfig struct {
	DailyLossPct  float64 `mapstructure:"daily_loss_pct"`
	WeeklyLossPct float64 `mapstructure:"weekly_loss_pct"`
}

// ChallengeConfig holds funded-account challenge settings.
type ChallengeConfig struct {
	Active              bool    `mapstructure:"active"`
	StartDate           string  `mapstructure:"start_date"` // YYYY-MM-DD
	AccountSize         float64 `mapstructure:"account_size"`
	DailyLossLimitPct   float64 `mapstructure:"daily_loss_limit_pct"`
	MaxTotalDrawdownPct float64 `mapstructure:"max_total_drawdown_pct"`
	ProfitTargetPct     float64 `mapstructure:"profit_target_pct"`
	MinTradingDays      int     `mapstructure:"min_trading_days"`
	TimeLimitDays       int     `mapstructure:"time_limit_days"`
}

// RatesConfig holds the exchange-rate provider settings.
type RatesConfig struct {
	URL          string        `mapstructure:"url"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/forex-coach"
	}
	return filepath.Join(home, ".config", "forex-coach")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file gets
// a template written in its place and defaults applied.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	cfg.Dir = configDir

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("account.balance", 0.0)
	v.SetDefault("account.currency", "USD")
	v.SetDefault("limits.daily_loss_pct", 1.0)
	v.SetDefault("limits.weekly_loss_pct", 2.5)
	v.SetDefault("challenge.active", false)
	v.SetDefault("challenge.daily_loss_limit_pct", 5.0)
	v.SetDefault("challenge.max_total_drawdown_pct", 10.0)
	v.SetDefault("challenge.profit_target_pct", 8.0)
	v.SetDefault("rates.cache_ttl", time.Hour)
	v.SetDefault("rates.fetch_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", true)
	v.SetDefault("log.file_path", filepath.Join(configDir, "logs", "coach.log"))
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COACH_ACCOUNT_BALANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Account.Balance = f
		}
	}
	if v := os.Getenv("COACH_RATES_URL"); v != "" {
		cfg.Rates.URL = v
	}
	if v := os.Getenv("COACH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Account.Balance < 0 {
		return fmt.Errorf("account balance must be non-negative")
	}
	if c.Limits.DailyLossPct < 0 || c.Limits.DailyLossPct > 100 {
		return fmt.Errorf("daily_loss_pct must be between 0 and 100")
	}
	if c.Limits.WeeklyLossPct < 0 || c.Limits.WeeklyLossPct > 100 {
		return fmt.Errorf("weekly_loss_pct must be between 0 and 100")
	}
	if c.Challenge.Active {
		if c.Challenge.AccountSize <= 0 {
			return fmt.Errorf("challenge account_size must be positive")
		}
		// A zero loss limit would read as an instantly breached rule.
		if c.Challenge.DailyLossLimitPct <= 0 || c.Challenge.DailyLossLimitPct > 100 {
			return fmt.Errorf("challenge daily_loss_limit_pct must be between 0 and 100, exclusive of 0")
		}
		if c.Challenge.MaxTotalDrawdownPct <= 0 || c.Challenge.MaxTotalDrawdownPct > 100 {
			return fmt.Errorf("challenge max_total_drawdown_pct must be between 0 and 100, exclusive of 0")
		}
		if _, err := c.ChallengeStartDate(); err != nil {
			return err
		}
	}
	return nil
}

// ChallengeStartDate parses the configured challenge start date.
func (c *Config) ChallengeStartDate() (time.Time, error) {
	if c.Challenge.StartDate == "" {
		return time.Time{}, fmt.Errorf("challenge start_date is required when challenge is active")
	}
	t, err := time.ParseInLocation("2006-01-02", c.Challenge.StartDate, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("challenge start_date: %w", err)
	}
	return t, nil
}

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	template := `# forex-coach configuration

[account]
# Account balance in USD; used for position sizing and loss limits.
balance = 10000.0
currency = "USD"

[limits]
# Loss-limit circuit breakers as percentages of balance. 0 disables.
daily_loss_pct = 1.0
weekly_loss_pct = 2.5

[challenge]
# Funded-account (prop-firm) evaluation mode.
active = false
# start_date = "2025-01-01"
account_size = 10000.0
daily_loss_limit_pct = 5.0
max_total_drawdown_pct = 10.0
profit_target_pct = 8.0
min_trading_days = 0
time_limit_days = 0

[rates]
# JSON endpoint returning a USD-relative rate table, e.g. {"USD":1,"EUR":0.92}.
# Leave empty to run without live rates (cross pairs fall back to 1:1 with a warning).
url = ""
cache_ttl = "1h"
fetch_timeout = "10s"

[log]
level = "info"
console = true
file = true
`

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil // don't clobber an existing file
	}
	return os.WriteFile(path, []byte(template), 0644)
}

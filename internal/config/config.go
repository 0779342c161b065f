package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"StockScreener/internal/detector"
	"StockScreener/internal/screener"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		HistoryPath string `yaml:"history_path"`
		PricesURL   string `yaml:"prices_url"`
		APIKey      string `yaml:"api_key"`
	} `yaml:"data_source"`
	Schedule struct {
		ScanCron    string `yaml:"scan_cron"`
		HeatmapCron string `yaml:"heatmap_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		Path string `yaml:"path"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Screeners screener.Config `yaml:"screeners"`
	Proxy     string          `yaml:"proxy"`
}

// Path resolves the config file location from a flag value and CONFIG_PATH.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Screener sections left out of the file keep their stock settings.
func Load(path string) (*Config, error) {
	cfg := &Config{Screeners: screener.DefaultConfig()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HISTORY_PATH"); v != "" {
		cfg.DataSource.HistoryPath = v
	}
	if v := os.Getenv("PRICES_URL"); v != "" {
		cfg.DataSource.PricesURL = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCHLIST_PATH"); v != "" {
		cfg.Watchlist.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.DataSource.HistoryPath == "" {
		cfg.DataSource.HistoryPath = "data/organized_nepse_data.json"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 15 15 * * 0-4"
	}
	if cfg.Watchlist.Path == "" {
		cfg.Watchlist.Path = "data/watchlist.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/screener.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return cfg, nil
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate checks the settings every command needs. Telegram credentials are
// checked separately by the bot with ValidateTelegram.
func (c *Config) Validate() error {
	if c.DataSource.HistoryPath == "" {
		return fmt.Errorf("data_source.history_path is required")
	}
	if _, err := cronParser.Parse(c.Schedule.ScanCron); err != nil {
		return fmt.Errorf("schedule.scan_cron: %w", err)
	}
	if c.Schedule.HeatmapCron != "" {
		if _, err := cronParser.Parse(c.Schedule.HeatmapCron); err != nil {
			return fmt.Errorf("schedule.heatmap_cron: %w", err)
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return c.validateScreeners()
}

func (c *Config) validateScreeners() error {
	s := c.Screeners
	switch {
	case s.Consolidation.Enabled && s.Consolidation.LookbackPeriod <= 0:
		return fmt.Errorf("screeners.consolidation.lookback_period must be positive")
	case s.Range.Enabled && s.Range.LookbackPeriod <= 0:
		return fmt.Errorf("screeners.range.lookback_period must be positive")
	case s.Range.MinPercentage > s.Range.MaxPercentage:
		return fmt.Errorf("screeners.range.min_percentage exceeds max_percentage")
	case s.Trendline.Enabled && s.Trendline.LookbackPeriod <= 0:
		return fmt.Errorf("screeners.trendline.lookback_period must be positive")
	case s.RSISupport.Enabled && s.RSISupport.RSIPeriod <= 0:
		return fmt.Errorf("screeners.rsi_support.rsi_period must be positive")
	case s.RSISupport.MinPercentage > s.RSISupport.MaxPercentage, s.Support.MinPercentage > s.Support.MaxPercentage:
		return fmt.Errorf("support min_percentage exceeds max_percentage")
	}
	switch s.Trendline.TrendDirection {
	case "up", "down", screener.DirectionBoth:
	default:
		return fmt.Errorf("screeners.trendline.trend_direction must be up, down or both, got %q", s.Trendline.TrendDirection)
	}
	if sl := s.Stoploss; sl.Enabled && (sl.DefaultPercent <= 0 || sl.DefaultPercent >= 100 || sl.AlertPercent < 0) {
		return fmt.Errorf("screeners.stoploss: default_percent must be within (0, 100) and alert_percent not negative")
	}
	if p := s.SupportPrediction; p.Enabled {
		switch {
		case p.MinBars <= 0:
			return fmt.Errorf("screeners.support_prediction.min_bars must be positive")
		case p.MaxDistance <= 0:
			return fmt.Errorf("screeners.support_prediction.max_distance must be positive")
		case p.MinConfidence < 0 || p.MinConfidence > 1:
			return fmt.Errorf("screeners.support_prediction.min_confidence must be within [0, 1]")
		}
		known := detector.KnownMethods()
		for _, m := range p.Methods {
			if !slices.Contains(known, m) {
				return fmt.Errorf("screeners.support_prediction.methods: unknown method %q", m)
			}
		}
	}
	if p := s.RSIPivot; p.Enabled && (p.FastPeriod <= 0 || p.SlowPeriod <= p.FastPeriod || p.PivotLookback <= 0) {
		return fmt.Errorf("screeners.rsi_pivot: fast_period must be positive and below slow_period, pivot_lookback positive")
	}
	if inst := s.Institutional; inst.Enabled {
		if inst.MinScore < 0 || inst.MinScore > 1 {
			return fmt.Errorf("screeners.institutional.min_score must be within [0, 1]")
		}
		for _, t := range inst.Thresholds {
			if t <= 0 || t > 1 {
				return fmt.Errorf("screeners.institutional.thresholds must be within (0, 1], got %g", t)
			}
		}
	}
	return nil
}

// ValidateTelegram checks the bot credentials.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// NewLogger builds the process logger from the log section.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if strings.EqualFold(c.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port              string `yaml:"port"`
		RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	} `yaml:"server"`
	Log struct {
		Level          string `yaml:"level"`
		Format         string `yaml:"format"`
		FileEnabled    bool   `yaml:"file_enabled"`
		FilePath       string `yaml:"file_path"`
		RotationSizeMB int    `yaml:"rotation_size_mb"`
		RetentionDays  int    `yaml:"retention_days"`
	} `yaml:"log"`
	Providers struct {
		TimeoutSec      int      `yaml:"timeout_sec"`
		MaxRetries      int      `yaml:"max_retries"`
		BackoffMinMs    int      `yaml:"backoff_min_ms"`
		BackoffMaxMs    int      `yaml:"backoff_max_ms"`
		Proxy           string   `yaml:"proxy"`
		PricePriority   []string `yaml:"price_priority"`
		ForeignPriority []string `yaml:"foreign_priority"`
	} `yaml:"providers"`
	Cache struct {
		TTLSec int `yaml:"ttl_sec"`
	} `yaml:"cache"`
	History struct {
		StockDays   int `yaml:"stock_days"`
		ForeignDays int `yaml:"foreign_days"`
		IndexDays   int `yaml:"index_days"`
	} `yaml:"history"`
	Signal struct {
		HighVolRatio float64 `yaml:"high_vol_ratio"`
		LowVolRatio  float64 `yaml:"low_vol_ratio"`
		PriceMovePct float64 `yaml:"price_move_pct"`
		ThinMovePct  float64 `yaml:"thin_move_pct"`
	} `yaml:"signal"`
	News struct {
		MaxItems   int `yaml:"max_items"`
		TimeoutSec int `yaml:"timeout_sec"`
	} `yaml:"news"`
	Watchlist struct {
		Symbols []string `yaml:"symbols"`
		Cron    string   `yaml:"cron"`
	} `yaml:"watchlist"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Providers.Proxy = v
	}
	if v := os.Getenv("PROVIDER_PROXY"); v != "" {
		cfg.Providers.Proxy = v
	}
	if v := os.Getenv("CACHE_TTL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.TTLSec = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Symbols = splitCSV(v)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.RequestTimeoutSec == 0 {
		cfg.Server.RequestTimeoutSec = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.FilePath == "" {
		cfg.Log.FilePath = "logs"
	}
	if cfg.Log.RotationSizeMB == 0 {
		cfg.Log.RotationSizeMB = 50
	}
	if cfg.Log.RetentionDays == 0 {
		cfg.Log.RetentionDays = 14
	}
	if cfg.Providers.TimeoutSec == 0 {
		cfg.Providers.TimeoutSec = 20
	}
	if cfg.Providers.MaxRetries == 0 {
		cfg.Providers.MaxRetries = 3
	}
	if cfg.Providers.BackoffMinMs == 0 {
		cfg.Providers.BackoffMinMs = 1000
	}
	if cfg.Providers.BackoffMaxMs == 0 {
		cfg.Providers.BackoffMaxMs = 5000
	}
	if len(cfg.Providers.PricePriority) == 0 {
		cfg.Providers.PricePriority = []string{"dnse", "tcbs", "vci"}
	}
	if len(cfg.Providers.ForeignPriority) == 0 {
		cfg.Providers.ForeignPriority = []string{"tcbs", "dnse", "vci"}
	}
	if cfg.Cache.TTLSec == 0 {
		cfg.Cache.TTLSec = 300
	}
	if cfg.History.StockDays == 0 {
		cfg.History.StockDays = 1095
	}
	if cfg.History.ForeignDays == 0 {
		cfg.History.ForeignDays = 30
	}
	if cfg.History.IndexDays == 0 {
		cfg.History.IndexDays = 1095
	}
	if cfg.Signal.HighVolRatio == 0 {
		cfg.Signal.HighVolRatio = 1.3
	}
	if cfg.Signal.LowVolRatio == 0 {
		cfg.Signal.LowVolRatio = 0.6
	}
	if cfg.Signal.PriceMovePct == 0 {
		cfg.Signal.PriceMovePct = 1.5
	}
	if cfg.Signal.ThinMovePct == 0 {
		cfg.Signal.ThinMovePct = 2.0
	}
	if cfg.News.MaxItems == 0 {
		cfg.News.MaxItems = 10
	}
	if cfg.News.TimeoutSec == 0 {
		cfg.News.TimeoutSec = 15
	}
	if cfg.Watchlist.Cron == "" {
		// HOSE continuous session closes 14:45 ICT; scan after the batch feeds settle.
		cfg.Watchlist.Cron = "0 30 15 * * 1-5"
	}
}

// Validate checks invariants that would otherwise surface as runtime faults.
func (c *Config) Validate() error {
	if c.Providers.MaxRetries < 1 {
		return fmt.Errorf("providers.max_retries must be at least 1")
	}
	if c.Providers.BackoffMinMs > c.Providers.BackoffMaxMs {
		return fmt.Errorf("providers.backoff_min_ms must not exceed backoff_max_ms")
	}
	if c.Cache.TTLSec <= 0 {
		return fmt.Errorf("cache.ttl_sec must be positive")
	}
	known := map[string]bool{"tcbs": true, "dnse": true, "vci": true}
	for _, name := range append(append([]string{}, c.Providers.PricePriority...), c.Providers.ForeignPriority...) {
		if !known[name] {
			return fmt.Errorf("unknown provider %q in priority list", name)
		}
	}
	if len(c.Watchlist.Symbols) > 0 && c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

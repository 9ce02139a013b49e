package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"PeakWatch/internal/model"
)

// TrackedSymbol names one instrument shown on the dashboard.
type TrackedSymbol struct {
	Label  string `yaml:"label"`
	Ticker string `yaml:"ticker"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL  string `yaml:"base_url"`
		Lookback string `yaml:"lookback"`
	} `yaml:"data_source"`
	Symbols    []TrackedSymbol `yaml:"symbols"`
	Volatility TrackedSymbol   `yaml:"volatility"`
	Refresh    struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	} `yaml:"refresh"`
	Sentiment struct {
		PrimaryURL   string `yaml:"primary_url"`
		SecondaryURL string `yaml:"secondary_url"`
		// Pointer so an explicit 0 is distinguishable from unset.
		PlaceholderScore *float64 `yaml:"placeholder_score"`
	} `yaml:"sentiment"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then fills defaults.
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("LOOKBACK"); v != "" {
		cfg.DataSource.Lookback = v
	}
	if v := os.Getenv("REFRESH_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Refresh.IntervalSeconds = n
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Refresh.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("SENTIMENT_PRIMARY_URL"); v != "" {
		cfg.Sentiment.PrimaryURL = v
	}
	if v := os.Getenv("SENTIMENT_SECONDARY_URL"); v != "" {
		cfg.Sentiment.SecondaryURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.DataSource.Lookback == "" {
		cfg.DataSource.Lookback = string(model.Lookback1y)
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []TrackedSymbol{
			{Label: "NASDAQ 100", Ticker: "^NDX"},
			{Label: "S&P 500", Ticker: "^GSPC"},
			{Label: "Dow Jones", Ticker: "^DJI"},
			{Label: "USD/KRW", Ticker: "KRW=X"},
		}
	}
	if cfg.Volatility.Ticker == "" {
		cfg.Volatility = TrackedSymbol{Label: "VIX", Ticker: "^VIX"}
	}
	if cfg.Refresh.IntervalSeconds == 0 {
		cfg.Refresh.IntervalSeconds = 10
	}
	if cfg.Refresh.CacheTTLSeconds == 0 {
		cfg.Refresh.CacheTTLSeconds = 60
	}
	if cfg.Sentiment.PlaceholderScore == nil {
		neutral := 50.0
		cfg.Sentiment.PlaceholderScore = &neutral
	}

	return cfg, nil
}

// Lookback returns the configured lookback window as a typed value.
func (c *Config) Lookback() model.Lookback {
	return model.Lookback(c.DataSource.Lookback)
}

// PlaceholderScore returns the sentiment score rendered when every fallback
// tier fails. Load guarantees the pointer is set.
func (c *Config) PlaceholderScore() float64 {
	return *c.Sentiment.PlaceholderScore
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	for _, s := range c.Symbols {
		if s.Ticker == "" {
			return fmt.Errorf("symbol %q has no ticker", s.Label)
		}
	}
	if c.Volatility.Ticker == "" {
		return fmt.Errorf("volatility.ticker is required")
	}
	if !c.Lookback().Valid() {
		return fmt.Errorf("unsupported lookback %q", c.DataSource.Lookback)
	}
	if c.Refresh.IntervalSeconds < 1 {
		return fmt.Errorf("refresh.interval_seconds must be positive")
	}
	if c.Refresh.CacheTTLSeconds < 0 {
		return fmt.Errorf("refresh.cache_ttl_seconds must not be negative")
	}
	if c.Sentiment.PlaceholderScore == nil {
		return fmt.Errorf("sentiment.placeholder_score is required")
	}
	if s := c.PlaceholderScore(); s < 0 || s > 100 {
		return fmt.Errorf("sentiment.placeholder_score must be in [0,100]")
	}
	return nil
}

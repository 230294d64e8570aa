package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for sniperdash. The portfolio, watchlist
// and technical levels are static inputs: loaded once at startup, validated,
// and never mutated afterwards.
type Config struct {
	Environment     string          `toml:"environment"`
	DisplayCurrency string          `toml:"display_currency"` // quote currency for converted totals (default "THB")
	Server          ServerConfig    `toml:"server"`
	Logging         LoggingConfig   `toml:"logging"`
	Market          MarketConfig    `toml:"market"`
	Portfolio       PortfolioConfig `toml:"portfolio"`
	Watchlist       WatchlistConfig `toml:"watchlist"`
	Levels          []LevelsConfig  `toml:"levels"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// MarketConfig holds market-data client configuration
type MarketConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	RateLimit      int     `toml:"rate_limit"`
	Timeout        string  `toml:"timeout"`
	CacheTTL       string  `toml:"cache_ttl"`
	FXPair         string  `toml:"fx_pair"`          // e.g. "USDTHB"
	FXFallbackRate float64 `toml:"fx_fallback_rate"` // used when FX retrieval fails; must be > 0
}

// GetTimeout parses and returns the HTTP timeout duration
func (c *MarketConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL parses and returns the price book freshness window
func (c *MarketConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return FreshnessQuote
	}
	return d
}

// PortfolioConfig holds the static portfolio definition
type PortfolioConfig struct {
	CashBalance float64          `toml:"cash_balance"` // uninvested cash, excluded from per-position weights
	StartDate   string           `toml:"start_date"`   // "2006-01-02", first investment date
	Positions   []PositionConfig `toml:"positions"`
}

// PositionConfig holds one portfolio holding
type PositionConfig struct {
	Ticker      string  `toml:"ticker"`
	AverageCost float64 `toml:"average_cost"`
	Quantity    float64 `toml:"quantity"`
	Theme       string  `toml:"theme"` // display grouping only
}

// GetStartDate parses the configured start date. Zero time when unset or malformed.
func (c *PortfolioConfig) GetStartDate() time.Time {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// WatchlistConfig holds the watchlist ticker sources. Tickers appearing in
// more than one source are deduplicated before classification.
type WatchlistConfig struct {
	Tickers          []string `toml:"tickers"`
	IncludePortfolio bool     `toml:"include_portfolio"` // also watch every portfolio ticker
}

// LevelsConfig holds support/resistance levels for one ticker. Only S1 and R1
// drive signal classification; S2/R2 are informational. A ticker with no
// levels entry is treated as all-zero (no signal).
type LevelsConfig struct {
	Ticker string  `toml:"ticker"`
	R1     float64 `toml:"r1"`
	R2     float64 `toml:"r2"`
	S1     float64 `toml:"s1"`
	S2     float64 `toml:"s2"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "THB",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Market: MarketConfig{
			BaseURL:        "https://eodhd.com/api",
			RateLimit:      10,
			Timeout:        "30s",
			CacheTTL:       "60s",
			FXPair:         "USDTHB",
			FXFallbackRate: 35.0,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SNIPERDASH_ENV"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("SNIPERDASH_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SNIPERDASH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("SNIPERDASH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if dc := os.Getenv("SNIPERDASH_DISPLAY_CURRENCY"); dc != "" {
		config.DisplayCurrency = strings.ToUpper(dc)
	}
	if key := os.Getenv("SNIPERDASH_MARKET_API_KEY"); key != "" {
		config.Market.APIKey = key
	}
}

// Validate checks configuration invariants that must hold before any
// computation runs. An invalid position is a configuration error and is
// rejected here rather than producing NaN percentages downstream.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Market.FXFallbackRate <= 0 {
		return fmt.Errorf("fx_fallback_rate must be positive, got %v", c.Market.FXFallbackRate)
	}

	seen := make(map[string]bool, len(c.Portfolio.Positions))
	for i, p := range c.Portfolio.Positions {
		if strings.TrimSpace(p.Ticker) == "" {
			return fmt.Errorf("position %d: ticker is required", i)
		}
		if p.AverageCost <= 0 {
			return fmt.Errorf("position %s: average_cost must be positive, got %v", p.Ticker, p.AverageCost)
		}
		if p.Quantity < 0 {
			return fmt.Errorf("position %s: quantity must not be negative, got %v", p.Ticker, p.Quantity)
		}
		ticker := strings.ToUpper(strings.TrimSpace(p.Ticker))
		if seen[ticker] {
			return fmt.Errorf("position %s: duplicate ticker", ticker)
		}
		seen[ticker] = true
	}

	for i, l := range c.Levels {
		if strings.TrimSpace(l.Ticker) == "" {
			return fmt.Errorf("levels %d: ticker is required", i)
		}
	}

	if c.Portfolio.CashBalance < 0 {
		return fmt.Errorf("cash_balance must not be negative, got %v", c.Portfolio.CashBalance)
	}

	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

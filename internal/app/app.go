// Package app wires configuration, clients and services together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkanate/sniperdash/internal/clients/eodhd"
	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/interfaces"
	"github.com/pkanate/sniperdash/internal/services/dashboard"
	"github.com/pkanate/sniperdash/internal/services/market"
	"github.com/pkanate/sniperdash/internal/services/sniper"
	"github.com/pkanate/sniperdash/internal/services/valuation"
)

// App holds all initialized services and clients. It is the shared core
// behind cmd/sniperdash-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	MarketClient     interfaces.MarketDataClient
	PriceProvider    interfaces.PriceProvider
	ValuationService interfaces.ValuationService
	SniperService    interfaces.SniperService
	DashboardService interfaces.DashboardService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, the market-data client and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, SNIPERDASH_CONFIG, then
	// binary dir, then fallback for development
	if configPath == "" {
		configPath = os.Getenv("SNIPERDASH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "sniperdash.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/sniperdash.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	// Without an API key every fetch degrades to zero prices and the
	// fallback FX rate - the dashboard still renders.
	var client interfaces.MarketDataClient
	if config.Market.APIKey != "" {
		client = eodhd.NewClient(config.Market.APIKey,
			eodhd.WithBaseURL(config.Market.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Market.RateLimit),
			eodhd.WithTimeout(config.Market.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Market API key not configured - live prices unavailable")
	}

	priceProvider := market.NewService(client, config.Market, logger)
	valuationService := valuation.NewService(logger)
	sniperService := sniper.NewService(logger)
	dashboardService := dashboard.NewService(priceProvider, valuationService, sniperService, config, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		MarketClient:     client,
		PriceProvider:    priceProvider,
		ValuationService: valuationService,
		SniperService:    sniperService,
		DashboardService: dashboardService,
		StartupTime:      startupStart,
	}

	logger.Info().
		Int("positions", len(config.Portfolio.Positions)).
		Int("watchlist", len(config.Watchlist.Tickers)).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

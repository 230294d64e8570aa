package interfaces

import (
	"context"

	"github.com/pkanate/sniperdash/internal/models"
)

// PriceProvider supplies a pre-resolved price book to the computation core.
// Implementations own caching and fallback policy; the book they return is
// complete - every requested ticker resolves to a snapshot (zero-valued on
// failure) and the FX rate is always positive.
type PriceProvider interface {
	// GetPriceBook returns prices for the tickers. When force is true the
	// freshness window is bypassed and a new fetch is performed.
	GetPriceBook(ctx context.Context, tickers []string, force bool) (*models.PriceBook, error)
}

// ValuationService turns positions plus a price book into per-position
// metrics and portfolio aggregates. Pure: no side effects, identical inputs
// yield identical results.
type ValuationService interface {
	// ValuePortfolio values every position against the price book.
	// cashBalance is added to equity but excluded from per-position
	// portfolio weights. Returns ErrInvalidPosition if any position
	// violates its invariants.
	ValuePortfolio(positions []models.Position, book *models.PriceBook, cashBalance float64) (*models.PortfolioValuation, error)
}

// SniperService classifies watchlist tickers into trading zones and orders
// them so the most actionable tickers surface first. Pure.
type SniperService interface {
	// ClassifyWatchlist deduplicates the tickers, classifies each one and
	// returns entries in display order.
	ClassifyWatchlist(tickers []string, book *models.PriceBook, levels models.LevelsTable) []models.WatchlistEntry

	// Classify evaluates a single ticker's price against its levels.
	Classify(price float64, levels models.TechnicalLevels) (models.Signal, *float64)
}

// DashboardService composes prices, valuation and watchlist classification
// into one refresh cycle's view.
type DashboardService interface {
	// GetDashboard builds the full dashboard. force bypasses the price cache
	// (the page's refresh button).
	GetDashboard(ctx context.Context, force bool) (*models.Dashboard, error)
}

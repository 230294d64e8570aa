package models

import "time"

// Dashboard is one refresh cycle's complete view: valued positions,
// aggregates in USD and the display currency, and the classified watchlist.
// Recomputed wholesale on every refresh; a new dashboard supersedes the
// previous one, partial results are never merged.
type Dashboard struct {
	GeneratedAt     time.Time `json:"generated_at"`
	PricesAsOf      time.Time `json:"prices_as_of"`
	DaysInvested    int       `json:"days_invested,omitempty"`
	DisplayCurrency string    `json:"display_currency"`
	FXRate          float64   `json:"fx_rate"`
	FXFallback      bool      `json:"fx_fallback,omitempty"`

	Valuation       PortfolioValuation `json:"valuation"`
	ConvertedTotals PortfolioTotals    `json:"converted_totals"` // Totals × FXRate, display currency
	Themes          []ThemeAllocation  `json:"themes,omitempty"`
	Watchlist       []WatchlistEntry   `json:"watchlist"`
}

// ThemeAllocation partitions the position table by theme label for display.
// No computation depends on it.
type ThemeAllocation struct {
	Theme          string   `json:"theme"`
	MarketValue    float64  `json:"market_value"`
	PctOfPortfolio float64  `json:"pct_of_portfolio"`
	Tickers        []string `json:"tickers"`
}

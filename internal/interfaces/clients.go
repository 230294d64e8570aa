// Package interfaces defines service contracts for sniperdash
package interfaces

import (
	"context"

	"github.com/pkanate/sniperdash/internal/models"
)

// MarketDataClient is the raw market-data API client. Implementations fetch
// over the network; errors are propagated and absorbed by the price
// provider, not by callers of the core.
type MarketDataClient interface {
	// GetQuotes returns last price and previous close per ticker. Tickers the
	// upstream API knows nothing about are simply absent from the result.
	GetQuotes(ctx context.Context, tickers []string) (map[string]models.PriceSnapshot, error)

	// GetFXRate returns the current rate for a pair like "USDTHB".
	GetFXRate(ctx context.Context, pair string) (float64, error)
}

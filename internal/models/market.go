package models

import "time"

// PriceSnapshot is the external market state for one ticker. A zero
// LastPrice signals "no data", not an error: the fetch layer absorbs
// per-ticker failures into zero-valued snapshots.
type PriceSnapshot struct {
	LastPrice     float64 `json:"last_price"`
	PreviousClose float64 `json:"previous_close"` // 0 means unavailable / insufficient history
}

// PriceBook holds one fetch cycle's prices for a set of tickers plus the
// exchange rate. Immutable for the duration of a computation.
type PriceBook struct {
	Prices     map[string]PriceSnapshot `json:"prices"`
	FXRate     float64                  `json:"fx_rate"` // quote currency per USD, always positive
	FXFallback bool                     `json:"fx_fallback,omitempty"`
	FetchedAt  time.Time                `json:"fetched_at"`
}

// Snapshot returns the price snapshot for a ticker, or a zero snapshot when
// the ticker has no data. Missing data never blocks valuation.
func (b *PriceBook) Snapshot(ticker string) PriceSnapshot {
	if b == nil || b.Prices == nil {
		return PriceSnapshot{}
	}
	return b.Prices[ticker]
}

// TechnicalLevels holds per-ticker support/resistance levels. R1/S1 are the
// primary levels used for classification; R2/S2 are informational only.
// Input ordering R1 < R2 is not guaranteed and never assumed.
type TechnicalLevels struct {
	R1 float64 `json:"r1"` // primary resistance (sell level)
	R2 float64 `json:"r2"`
	S1 float64 `json:"s1"` // primary support (buy level)
	S2 float64 `json:"s2"`
}

// LevelsTable maps tickers to their configured technical levels.
type LevelsTable map[string]TechnicalLevels

// Get returns the levels for a ticker. A ticker with no configured levels
// yields the all-zero value, which classifies as NO_SIGNAL.
func (t LevelsTable) Get(ticker string) TechnicalLevels {
	if t == nil {
		return TechnicalLevels{}
	}
	return t[ticker]
}

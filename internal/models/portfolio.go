// Package models defines data structures for sniperdash
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPosition marks a position that violates configuration invariants.
// Detected at load time - never recovered into a neutral value, since a zero
// or negative average cost would poison every percentage downstream.
var ErrInvalidPosition = errors.New("invalid position")

// Position represents a single portfolio holding. Positions are static
// configuration: supplied at process start and never mutated.
type Position struct {
	Ticker      string  `json:"ticker"`
	AverageCost float64 `json:"average_cost"` // cost basis per unit, always positive
	Quantity    float64 `json:"quantity"`     // fractional units allowed
	Theme       string  `json:"theme,omitempty"`
}

// Validate checks the position invariants: ticker present, average cost
// positive, quantity non-negative.
func (p Position) Validate() error {
	if strings.TrimSpace(p.Ticker) == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidPosition)
	}
	if p.AverageCost <= 0 {
		return fmt.Errorf("%w: %s average_cost must be positive, got %v", ErrInvalidPosition, p.Ticker, p.AverageCost)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: %s quantity must not be negative, got %v", ErrInvalidPosition, p.Ticker, p.Quantity)
	}
	return nil
}

// ValuedPosition is a position joined with live price data. Recomputed
// wholesale on every refresh - never persisted.
type ValuedPosition struct {
	Position

	CurrentPrice   float64 `json:"current_price"`    // 0 when no price data is available
	MarketValue    float64 `json:"market_value"`     // quantity × current price
	CostBasis      float64 `json:"cost_basis"`       // quantity × average cost
	UnrealizedGain float64 `json:"unrealized_gain"`  // market value − cost basis
	PctGainTotal   float64 `json:"pct_gain_total"`   // (price − avg cost) / avg cost, signed fraction
	DayChangeValue float64 `json:"day_change_value"` // (price − previous close) × quantity
	PctDayChange   float64 `json:"pct_day_change"`   // signed fraction; 0 when previous close unavailable
	PctOfPortfolio float64 `json:"pct_of_portfolio"` // percent of invested market value (cash excluded)
	PctOfEquity    float64 `json:"pct_of_equity"`    // percent of total equity (cash included)
}

// PortfolioTotals aggregates the valued positions. MarketValue and Equity are
// distinct denominators: per-position weights in the position table use
// MarketValue only, while the cash-inclusive allocation view uses Equity.
type PortfolioTotals struct {
	MarketValue    float64 `json:"market_value"`
	CostBasis      float64 `json:"cost_basis"`
	UnrealizedGain float64 `json:"unrealized_gain"`
	PctGain        float64 `json:"pct_gain"` // signed fraction; 0 when cost basis is 0
	DayChangeValue float64 `json:"day_change_value"`
	CashBalance    float64 `json:"cash_balance"`
	Equity         float64 `json:"equity"` // market value + cash balance
}

// Convert returns the totals expressed in the display currency. A pure
// multiplicative view: money fields are scaled, fractions are unchanged.
func (t PortfolioTotals) Convert(rate float64) PortfolioTotals {
	return PortfolioTotals{
		MarketValue:    t.MarketValue * rate,
		CostBasis:      t.CostBasis * rate,
		UnrealizedGain: t.UnrealizedGain * rate,
		PctGain:        t.PctGain,
		DayChangeValue: t.DayChangeValue * rate,
		CashBalance:    t.CashBalance * rate,
		Equity:         t.Equity * rate,
	}
}

// PortfolioValuation is the full result of one valuation pass: every
// position valued plus the aggregates. Derived, transient, single-owner.
type PortfolioValuation struct {
	Positions []ValuedPosition `json:"positions"`
	Totals    PortfolioTotals  `json:"totals"`
}

// Package valuation computes per-position metrics and portfolio aggregates
// from static positions and a pre-resolved price book.
package valuation

import (
	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/interfaces"
	"github.com/pkanate/sniperdash/internal/models"
)

// Compile-time interface check
var _ interfaces.ValuationService = (*Service)(nil)

// Service implements ValuationService. The valuation itself is a pure
// function of its inputs; the logger only reports outcomes.
type Service struct {
	logger *common.Logger
}

// NewService creates a new valuation service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// ValuePortfolio values every position against the price book and computes
// the aggregates. A position whose ticker has no price data yields a zeroed
// row rather than aborting the rest of the portfolio. An invalid position is
// a configuration error and aborts the whole valuation - by the time prices
// are flowing, positions must already have been validated at load.
func (s *Service) ValuePortfolio(positions []models.Position, book *models.PriceBook, cashBalance float64) (*models.PortfolioValuation, error) {
	valued := make([]models.ValuedPosition, 0, len(positions))

	for _, p := range positions {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		valued = append(valued, valuePosition(p, book.Snapshot(p.Ticker)))
	}

	result := &models.PortfolioValuation{Positions: valued}

	for _, v := range valued {
		result.Totals.MarketValue += v.MarketValue
		result.Totals.CostBasis += v.CostBasis
		result.Totals.DayChangeValue += v.DayChangeValue
	}
	result.Totals.UnrealizedGain = result.Totals.MarketValue - result.Totals.CostBasis
	if result.Totals.CostBasis > 0 {
		result.Totals.PctGain = result.Totals.UnrealizedGain / result.Totals.CostBasis
	}
	result.Totals.CashBalance = cashBalance
	result.Totals.Equity = result.Totals.MarketValue + cashBalance

	// Weights need the totals, so they come in a second pass. Zero
	// denominators (a full data outage) leave every weight at zero.
	for i := range result.Positions {
		if result.Totals.MarketValue > 0 {
			result.Positions[i].PctOfPortfolio = result.Positions[i].MarketValue / result.Totals.MarketValue * 100
		}
		if result.Totals.Equity > 0 {
			result.Positions[i].PctOfEquity = result.Positions[i].MarketValue / result.Totals.Equity * 100
		}
	}

	s.logger.Debug().
		Int("positions", len(valued)).
		Float64("market_value", result.Totals.MarketValue).
		Float64("unrealized_gain", result.Totals.UnrealizedGain).
		Msg("Portfolio valued")

	return result, nil
}

// valuePosition computes the per-position metrics. The snapshot may be the
// zero value - the row degrades to zero market value, leaving the full cost
// basis showing as unrealized loss.
func valuePosition(p models.Position, snap models.PriceSnapshot) models.ValuedPosition {
	v := models.ValuedPosition{
		Position:     p,
		CurrentPrice: snap.LastPrice,
		MarketValue:  p.Quantity * snap.LastPrice,
		CostBasis:    p.Quantity * p.AverageCost,
	}
	v.UnrealizedGain = v.MarketValue - v.CostBasis

	// AverageCost > 0 is guaranteed by Validate.
	v.PctGainTotal = (snap.LastPrice - p.AverageCost) / p.AverageCost

	v.DayChangeValue = (snap.LastPrice - snap.PreviousClose) * p.Quantity
	if snap.PreviousClose > 0 {
		v.PctDayChange = (snap.LastPrice - snap.PreviousClose) / snap.PreviousClose
	}

	return v
}

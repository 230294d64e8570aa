package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkanate/sniperdash/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testValuation() *models.PortfolioValuation {
	return &models.PortfolioValuation{
		Positions: []models.ValuedPosition{
			{
				Position:       models.Position{Ticker: "NVDA", AverageCost: 100, Quantity: 2},
				CurrentPrice:   150,
				MarketValue:    300,
				UnrealizedGain: 100,
				PctOfPortfolio: 60,
				PctOfEquity:    50,
			},
			{
				Position:       models.Position{Ticker: "ASML", AverageCost: 700, Quantity: 0.5},
				CurrentPrice:   400,
				MarketValue:    200,
				UnrealizedGain: -150,
				PctOfPortfolio: 40,
				PctOfEquity:    33.3,
			},
		},
		Totals: models.PortfolioTotals{
			MarketValue: 500,
			CashBalance: 100,
			Equity:      600,
		},
	}
}

func TestRenderAllocationChart(t *testing.T) {
	png, err := RenderAllocationChart(testValuation(), false)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output is not a PNG")
}

func TestRenderAllocationChart_WithCashSlice(t *testing.T) {
	png, err := RenderAllocationChart(testValuation(), true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderAllocationChart_SkipsZeroValuePositions(t *testing.T) {
	v := testValuation()
	v.Positions[1].MarketValue = 0

	png, err := RenderAllocationChart(v, false)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderAllocationChart_NothingToRender(t *testing.T) {
	v := &models.PortfolioValuation{}

	_, err := RenderAllocationChart(v, false)
	assert.Error(t, err)
}

func TestRenderGainChart(t *testing.T) {
	png, err := RenderGainChart(testValuation())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderGainChart_AllGainsZero(t *testing.T) {
	v := testValuation()
	for i := range v.Positions {
		v.Positions[i].UnrealizedGain = 0
	}

	// A flat value range must still render instead of breaking the axis.
	png, err := RenderGainChart(v)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderGainChart_NoPositions(t *testing.T) {
	_, err := RenderGainChart(&models.PortfolioValuation{})
	assert.Error(t, err)
}

// Package charts renders the dashboard's allocation and gain charts as PNG.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pkanate/sniperdash/internal/models"
)

// RenderAllocationChart renders a donut of position weights. With
// includeCash the uninvested cash balance becomes its own slice and weights
// are relative to total equity; without it, weights are relative to the
// invested market value only. Returns raw PNG bytes.
func RenderAllocationChart(v *models.PortfolioValuation, includeCash bool) ([]byte, error) {
	var values []chart.Value

	for _, p := range v.Positions {
		if p.MarketValue <= 0 {
			continue
		}
		weight := p.PctOfPortfolio
		if includeCash {
			weight = p.PctOfEquity
		}
		values = append(values, chart.Value{
			Value: p.MarketValue,
			Label: fmt.Sprintf("%s %.1f%%", p.Ticker, weight),
		})
	}

	if includeCash && v.Totals.CashBalance > 0 {
		weight := 0.0
		if v.Totals.Equity > 0 {
			weight = v.Totals.CashBalance / v.Totals.Equity * 100
		}
		values = append(values, chart.Value{
			Value: v.Totals.CashBalance,
			Label: fmt.Sprintf("Cash %.1f%%", weight),
		})
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("no positive allocations to render")
	}

	graph := chart.DonutChart{
		Title:  "Allocation",
		Width:  500,
		Height: 500,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderGainChart renders a bar per position showing unrealized gain, green
// for gains and red for losses. Returns raw PNG bytes.
func RenderGainChart(v *models.PortfolioValuation) ([]byte, error) {
	if len(v.Positions) == 0 {
		return nil, fmt.Errorf("no positions to render")
	}

	gainStyle := chart.Style{
		FillColor:   drawing.ColorFromHex("28a745"),
		StrokeColor: drawing.ColorFromHex("28a745"),
		StrokeWidth: 0,
	}
	lossStyle := chart.Style{
		FillColor:   drawing.ColorFromHex("dc3545"),
		StrokeColor: drawing.ColorFromHex("dc3545"),
		StrokeWidth: 0,
	}

	bars := make([]chart.Value, 0, len(v.Positions))
	var minGain, maxGain float64
	for _, p := range v.Positions {
		style := gainStyle
		if p.UnrealizedGain < 0 {
			style = lossStyle
		}
		bars = append(bars, chart.Value{
			Value: p.UnrealizedGain,
			Label: p.Ticker,
			Style: style,
		})
		if p.UnrealizedGain < minGain {
			minGain = p.UnrealizedGain
		}
		if p.UnrealizedGain > maxGain {
			maxGain = p.UnrealizedGain
		}
	}

	// A flat range breaks the axis renderer.
	if minGain == maxGain {
		maxGain = minGain + 1
	}

	graph := chart.BarChart{
		Title:    "Unrealized Gain / Loss",
		Width:    900,
		Height:   400,
		BarWidth: 48,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minGain, Max: maxGain},
			ValueFormatter: func(val interface{}) string {
				if f, ok := val.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

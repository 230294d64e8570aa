// Package dashboard composes prices, valuation and watchlist classification
// into the view the browser page renders.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/interfaces"
	"github.com/pkanate/sniperdash/internal/models"
)

// Compile-time interface check
var _ interfaces.DashboardService = (*Service)(nil)

// Service implements DashboardService. Positions, watchlist tickers and
// technical levels are fixed at construction - they are static configuration.
type Service struct {
	provider  interfaces.PriceProvider
	valuation interfaces.ValuationService
	sniper    interfaces.SniperService
	logger    *common.Logger
	now       func() time.Time // injectable clock for testing

	positions       []models.Position
	watchTickers    []string
	levels          models.LevelsTable
	cashBalance     float64
	startDate       time.Time
	displayCurrency string
}

// NewService creates a new dashboard service from validated configuration.
func NewService(provider interfaces.PriceProvider, valuation interfaces.ValuationService, sniper interfaces.SniperService, config *common.Config, logger *common.Logger) *Service {
	s := &Service{
		provider:        provider,
		valuation:       valuation,
		sniper:          sniper,
		logger:          logger,
		now:             time.Now,
		cashBalance:     config.Portfolio.CashBalance,
		startDate:       config.Portfolio.GetStartDate(),
		displayCurrency: config.DisplayCurrency,
	}

	for _, p := range config.Portfolio.Positions {
		s.positions = append(s.positions, models.Position{
			Ticker:      strings.ToUpper(strings.TrimSpace(p.Ticker)),
			AverageCost: p.AverageCost,
			Quantity:    p.Quantity,
			Theme:       p.Theme,
		})
	}

	s.watchTickers = append(s.watchTickers, config.Watchlist.Tickers...)
	if config.Watchlist.IncludePortfolio {
		for _, p := range s.positions {
			s.watchTickers = append(s.watchTickers, p.Ticker)
		}
	}

	s.levels = make(models.LevelsTable, len(config.Levels))
	for _, l := range config.Levels {
		s.levels[strings.ToUpper(strings.TrimSpace(l.Ticker))] = models.TechnicalLevels{
			R1: l.R1,
			R2: l.R2,
			S1: l.S1,
			S2: l.S2,
		}
	}

	return s
}

// GetDashboard runs one refresh cycle: resolve the price book, value the
// portfolio, classify the watchlist and assemble the view. force bypasses
// the price freshness window.
func (s *Service) GetDashboard(ctx context.Context, force bool) (*models.Dashboard, error) {
	book, err := s.provider.GetPriceBook(ctx, s.allTickers(), force)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve price book: %w", err)
	}

	valuation, err := s.valuation.ValuePortfolio(s.positions, book, s.cashBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to value portfolio: %w", err)
	}

	watchlist := s.sniper.ClassifyWatchlist(s.watchTickers, book, s.levels)

	d := &models.Dashboard{
		GeneratedAt:     s.now(),
		PricesAsOf:      book.FetchedAt,
		DaysInvested:    s.daysInvested(),
		DisplayCurrency: s.displayCurrency,
		FXRate:          book.FXRate,
		FXFallback:      book.FXFallback,
		Valuation:       *valuation,
		ConvertedTotals: valuation.Totals.Convert(book.FXRate),
		Themes:          themeAllocations(valuation),
		Watchlist:       watchlist,
	}

	s.logger.Info().
		Int("positions", len(valuation.Positions)).
		Int("watchlist", len(watchlist)).
		Float64("market_value", valuation.Totals.MarketValue).
		Bool("fx_fallback", book.FXFallback).
		Msg("Dashboard refreshed")

	return d, nil
}

// allTickers returns every ticker one price book must cover: portfolio
// holdings plus watchlist entries.
func (s *Service) allTickers() []string {
	tickers := make([]string, 0, len(s.positions)+len(s.watchTickers))
	for _, p := range s.positions {
		tickers = append(tickers, p.Ticker)
	}
	tickers = append(tickers, s.watchTickers...)
	return tickers
}

// daysInvested returns whole days since the configured start date, 0 when
// unset or in the future.
func (s *Service) daysInvested() int {
	if s.startDate.IsZero() {
		return 0
	}
	days := int(s.now().Sub(s.startDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// themeAllocations partitions the valued positions by theme label, largest
// allocation first. Positions without a theme group under "Other".
func themeAllocations(v *models.PortfolioValuation) []models.ThemeAllocation {
	byTheme := make(map[string]*models.ThemeAllocation)

	for _, p := range v.Positions {
		theme := p.Theme
		if theme == "" {
			theme = "Other"
		}
		alloc, ok := byTheme[theme]
		if !ok {
			alloc = &models.ThemeAllocation{Theme: theme}
			byTheme[theme] = alloc
		}
		alloc.MarketValue += p.MarketValue
		alloc.PctOfPortfolio += p.PctOfPortfolio
		alloc.Tickers = append(alloc.Tickers, p.Ticker)
	}

	themes := make([]models.ThemeAllocation, 0, len(byTheme))
	for _, alloc := range byTheme {
		sort.Strings(alloc.Tickers)
		themes = append(themes, *alloc)
	}
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].MarketValue != themes[j].MarketValue {
			return themes[i].MarketValue > themes[j].MarketValue
		}
		return themes[i].Theme < themes[j].Theme
	})

	return themes
}

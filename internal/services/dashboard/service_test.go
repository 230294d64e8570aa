package dashboard

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/models"
	"github.com/pkanate/sniperdash/internal/services/sniper"
	"github.com/pkanate/sniperdash/internal/services/valuation"
)

type stubProvider struct {
	book        *models.PriceBook
	lastTickers []string
	lastForce   bool
}

func (s *stubProvider) GetPriceBook(ctx context.Context, tickers []string, force bool) (*models.PriceBook, error) {
	s.lastTickers = tickers
	s.lastForce = force
	return s.book, nil
}

func testConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Portfolio.CashBalance = 500
	cfg.Portfolio.StartDate = "2026-08-18"
	cfg.Portfolio.Positions = []common.PositionConfig{
		{Ticker: "nvda", AverageCost: 100, Quantity: 2, Theme: "AI"},
		{Ticker: "MSFT", AverageCost: 400, Quantity: 1, Theme: "AI"},
		{Ticker: "ASML", AverageCost: 700, Quantity: 1},
	}
	cfg.Watchlist.Tickers = []string{"AMD"}
	cfg.Watchlist.IncludePortfolio = true
	cfg.Levels = []common.LevelsConfig{
		{Ticker: "amd", R1: 180, S1: 150},
	}
	return cfg
}

func newTestService(provider *stubProvider) *Service {
	logger := common.NewSilentLogger()
	svc := NewService(provider, valuation.NewService(logger), sniper.NewService(logger), testConfig(), logger)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func testBook() *models.PriceBook {
	return &models.PriceBook{
		Prices: map[string]models.PriceSnapshot{
			"NVDA": {LastPrice: 150, PreviousClose: 148},
			"MSFT": {LastPrice: 420, PreviousClose: 415},
			"ASML": {LastPrice: 650, PreviousClose: 660},
			"AMD":  {LastPrice: 152, PreviousClose: 155},
		},
		FXRate:    36.0,
		FetchedAt: time.Date(2026, 8, 28, 11, 59, 30, 0, time.UTC),
	}
}

func TestGetDashboard_ComposesView(t *testing.T) {
	provider := &stubProvider{book: testBook()}
	svc := newTestService(provider)

	d, err := svc.GetDashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// NVDA 2@150 + MSFT 1@420 + ASML 1@650
	if d.Valuation.Totals.MarketValue != 1370 {
		t.Errorf("MarketValue = %v, want 1370", d.Valuation.Totals.MarketValue)
	}
	if d.Valuation.Totals.Equity != 1870 {
		t.Errorf("Equity = %v, want 1870", d.Valuation.Totals.Equity)
	}
	if d.ConvertedTotals.MarketValue != 1370*36.0 {
		t.Errorf("ConvertedTotals.MarketValue = %v, want %v", d.ConvertedTotals.MarketValue, 1370*36.0)
	}
	if d.DisplayCurrency != "THB" {
		t.Errorf("DisplayCurrency = %s, want THB", d.DisplayCurrency)
	}
	if d.FXRate != 36.0 || d.FXFallback {
		t.Errorf("FXRate = %v fallback = %v, want 36.0/false", d.FXRate, d.FXFallback)
	}
	if !d.PricesAsOf.Equal(provider.book.FetchedAt) {
		t.Errorf("PricesAsOf = %v, want book fetch time", d.PricesAsOf)
	}
	if d.DaysInvested != 10 {
		t.Errorf("DaysInvested = %v, want 10", d.DaysInvested)
	}
}

func TestGetDashboard_PriceBookCoversPortfolioAndWatchlist(t *testing.T) {
	provider := &stubProvider{book: testBook()}
	svc := newTestService(provider)

	if _, err := svc.GetDashboard(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !provider.lastForce {
		t.Error("force flag not forwarded to the provider")
	}
	requested := map[string]bool{}
	for _, ticker := range provider.lastTickers {
		requested[ticker] = true
	}
	for _, want := range []string{"NVDA", "MSFT", "ASML", "AMD"} {
		if !requested[want] {
			t.Errorf("price book request missing %s", want)
		}
	}
}

func TestGetDashboard_WatchlistIncludesPortfolioTickers(t *testing.T) {
	provider := &stubProvider{book: testBook()}
	svc := newTestService(provider)

	d, err := svc.GetDashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byTicker := map[string]models.WatchlistEntry{}
	for _, e := range d.Watchlist {
		byTicker[e.Ticker] = e
	}

	if len(d.Watchlist) != 4 {
		t.Fatalf("watchlist length = %d, want 4 (explicit + holdings, deduped)", len(d.Watchlist))
	}

	// AMD at 152 with S1=150: just over support, inside the alert band.
	amd := byTicker["AMD"]
	if amd.Signal != models.SignalAlert {
		t.Errorf("AMD signal = %s, want ALERT", amd.Signal)
	}
	if amd.DistanceToS1 == nil || math.Abs(*amd.DistanceToS1-2.0/150.0) > 1e-12 {
		t.Errorf("AMD distance = %v, want ~0.0133", amd.DistanceToS1)
	}

	// Holdings without configured levels ride along as NO_SIGNAL.
	if byTicker["NVDA"].Signal != models.SignalNone {
		t.Errorf("NVDA signal = %s, want NO_SIGNAL", byTicker["NVDA"].Signal)
	}
}

func TestGetDashboard_ThemeAllocations(t *testing.T) {
	provider := &stubProvider{book: testBook()}
	svc := newTestService(provider)

	d, err := svc.GetDashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Themes) != 2 {
		t.Fatalf("themes = %d, want 2", len(d.Themes))
	}

	// AI: NVDA 300 + MSFT 420 = 720; ASML has no theme and lands in Other.
	if d.Themes[0].Theme != "AI" || d.Themes[0].MarketValue != 720 {
		t.Errorf("top theme = %s/%v, want AI/720", d.Themes[0].Theme, d.Themes[0].MarketValue)
	}
	if d.Themes[1].Theme != "Other" || d.Themes[1].MarketValue != 650 {
		t.Errorf("second theme = %s/%v, want Other/650", d.Themes[1].Theme, d.Themes[1].MarketValue)
	}

	var pct float64
	for _, theme := range d.Themes {
		pct += theme.PctOfPortfolio
	}
	if math.Abs(pct-100) > 1e-9 {
		t.Errorf("theme weights sum = %v, want 100", pct)
	}
}

func TestDaysInvested_FutureStartDateIsZero(t *testing.T) {
	provider := &stubProvider{book: testBook()}
	cfg := testConfig()
	cfg.Portfolio.StartDate = "2027-01-01"

	logger := common.NewSilentLogger()
	svc := NewService(provider, valuation.NewService(logger), sniper.NewService(logger), cfg, logger)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}

	d, err := svc.GetDashboard(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DaysInvested != 0 {
		t.Errorf("DaysInvested = %v, want 0 for a future start date", d.DaysInvested)
	}
}

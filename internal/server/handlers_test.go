package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkanate/sniperdash/internal/app"
	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/models"
)

type stubDashboardService struct {
	dashboard *models.Dashboard
	err       error
	lastForce bool
}

func (s *stubDashboardService) GetDashboard(ctx context.Context, force bool) (*models.Dashboard, error) {
	s.lastForce = force
	if s.err != nil {
		return nil, s.err
	}
	return s.dashboard, nil
}

func testDashboard() *models.Dashboard {
	return &models.Dashboard{
		GeneratedAt:     time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		PricesAsOf:      time.Date(2026, 8, 28, 11, 59, 0, 0, time.UTC),
		DaysInvested:    42,
		DisplayCurrency: "THB",
		FXRate:          36.0,
		Valuation: models.PortfolioValuation{
			Positions: []models.ValuedPosition{
				{
					Position:     models.Position{Ticker: "NVDA", AverageCost: 100, Quantity: 2, Theme: "AI"},
					CurrentPrice: 150,
					MarketValue:  300,
					CostBasis:    200,
				},
			},
			Totals: models.PortfolioTotals{MarketValue: 300, CostBasis: 200, Equity: 400, CashBalance: 100},
		},
		ConvertedTotals: models.PortfolioTotals{MarketValue: 10800},
		Watchlist: []models.WatchlistEntry{
			{Ticker: "AMD", Price: 152, Signal: models.SignalAlert, Rank: 2},
		},
	}
}

func newTestServer(stub *stubDashboardService) *Server {
	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		DashboardService: stub,
	}
	return NewServer(a)
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestVersionEndpoint(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/version")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "build")
}

func TestDashboardEndpoint(t *testing.T) {
	stub := &stubDashboardService{dashboard: testDashboard()}
	s := newTestServer(stub)

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, stub.lastForce, "a plain GET honors the freshness window")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "THB", body["display_currency"])
	assert.Equal(t, 42.0, body["days_invested"])
}

func TestRefreshEndpoint_ForcesFetch(t *testing.T) {
	stub := &stubDashboardService{dashboard: testDashboard()}
	s := newTestServer(stub)

	rec := doRequest(t, s, http.MethodPost, "/api/refresh")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.lastForce, "refresh must bypass the price cache")
}

func TestRefreshEndpoint_RejectsGet(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/refresh")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestPortfolioEndpoint(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/portfolio")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "valuation")
	assert.Contains(t, body, "converted_totals")
	assert.NotContains(t, body, "watchlist")
}

func TestWatchlistEndpoint(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/watchlist")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Watchlist []models.WatchlistEntry `json:"watchlist"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Watchlist, 1)
	assert.Equal(t, "AMD", body.Watchlist[0].Ticker)
	assert.Equal(t, models.SignalAlert, body.Watchlist[0].Signal)
}

func TestDashboardEndpoint_ServiceError(t *testing.T) {
	s := newTestServer(&stubDashboardService{err: errors.New("boom")})

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body.Error)
}

func TestAllocationChartEndpoint(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/charts/allocation?include_cash=true")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestGainChartEndpoint(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/charts/gain")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/health")

	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestUnknownRouteIs404(t *testing.T) {
	s := newTestServer(&stubDashboardService{dashboard: testDashboard()})

	rec := doRequest(t, s, http.MethodGet, "/api/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

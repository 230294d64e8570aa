package server

import (
	"net/http"

	"github.com/pkanate/sniperdash/internal/charts"
	"github.com/pkanate/sniperdash/internal/common"
)

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleDashboard handles GET /api/dashboard - the full view, honoring the
// price freshness window.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, err := s.app.DashboardService.GetDashboard(r.Context(), false)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, d)
}

// handleRefresh handles POST /api/refresh - the page's refresh button.
// Bypasses the price cache and returns the rebuilt dashboard.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	d, err := s.app.DashboardService.GetDashboard(r.Context(), true)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, d)
}

// handlePortfolio handles GET /api/portfolio - valued positions and
// aggregates only.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, err := s.app.DashboardService.GetDashboard(r.Context(), false)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valuation":        d.Valuation,
		"converted_totals": d.ConvertedTotals,
		"display_currency": d.DisplayCurrency,
		"fx_rate":          d.FXRate,
		"days_invested":    d.DaysInvested,
		"themes":           d.Themes,
	})
}

// handleWatchlist handles GET /api/watchlist - classified entries in display
// order.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, err := s.app.DashboardService.GetDashboard(r.Context(), false)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist":    d.Watchlist,
		"prices_as_of": d.PricesAsOf,
	})
}

// handleAllocationChart handles GET /api/charts/allocation[?include_cash=true].
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, err := s.app.DashboardService.GetDashboard(r.Context(), false)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	includeCash := r.URL.Query().Get("include_cash") == "true"

	png, err := charts.RenderAllocationChart(&d.Valuation, includeCash)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	WritePNG(w, png)
}

// handleGainChart handles GET /api/charts/gain.
func (s *Server) handleGainChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, err := s.app.DashboardService.GetDashboard(r.Context(), false)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	png, err := charts.RenderGainChart(&d.Valuation)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	WritePNG(w, png)
}

package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Dashboard
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/refresh", s.handleRefresh)

	// Component views
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)

	// Charts
	mux.HandleFunc("/api/charts/allocation", s.handleAllocationChart)
	mux.HandleFunc("/api/charts/gain", s.handleGainChart)
}

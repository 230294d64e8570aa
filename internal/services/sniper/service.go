// Package sniper classifies watchlist tickers into trading zones relative
// to their support and resistance levels.
package sniper

import (
	"sort"
	"strings"

	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/interfaces"
	"github.com/pkanate/sniperdash/internal/models"
)

// Compile-time interface check
var _ interfaces.SniperService = (*Service)(nil)

// Service implements SniperService
type Service struct {
	logger *common.Logger
}

// NewService creates a new sniper service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// Classify evaluates price action against the primary levels. The returned
// distance is (price − S1) / S1, nil when S1 is not configured.
//
// The conditions are checked in strict priority order - first match wins:
//
//	price <= S1            IN_ZONE  (buy level reached or breached)
//	0 < dist <= AlertBand  ALERT    (approaching the buy level)
//	price >= R1            PROFIT   (sell level reached; only after the
//	                                 buy-side conditions fail)
//	otherwise              WAIT
//
// Without a support level nothing is evaluated: the ticker is NO_SIGNAL
// regardless of price, distinct from an evaluated WAIT.
func (s *Service) Classify(price float64, levels models.TechnicalLevels) (models.Signal, *float64) {
	if levels.S1 <= 0 {
		return models.SignalNone, nil
	}

	dist := (price - levels.S1) / levels.S1

	signal := models.SignalWait
	switch {
	case price <= levels.S1:
		signal = models.SignalInZone
	case dist > 0 && dist <= models.AlertBand:
		signal = models.SignalAlert
	case levels.R1 > 0 && price >= levels.R1:
		signal = models.SignalProfit
	}

	return signal, &dist
}

// ClassifyWatchlist classifies every distinct ticker and returns the entries
// in display order: rank ascending, then distance to S1 ascending, then
// ticker ascending. Duplicate tickers across source lists collapse to one
// entry.
func (s *Service) ClassifyWatchlist(tickers []string, book *models.PriceBook, levels models.LevelsTable) []models.WatchlistEntry {
	entries := make([]models.WatchlistEntry, 0, len(tickers))

	for _, ticker := range dedupeTickers(tickers) {
		snap := book.Snapshot(ticker)
		lv := levels.Get(ticker)

		signal, dist := s.Classify(snap.LastPrice, lv)

		entry := models.WatchlistEntry{
			Ticker:        ticker,
			Price:         snap.LastPrice,
			PreviousClose: snap.PreviousClose,
			Signal:        signal,
			Rank:          signal.Rank(),
			DistanceToS1:  dist,
			S1:            lv.S1,
			R1:            lv.R1,
		}
		if snap.PreviousClose > 0 {
			entry.PctDayChange = (snap.LastPrice - snap.PreviousClose) / snap.PreviousClose
		}

		entries = append(entries, entry)
	}

	models.SortWatchlist(entries)

	s.logger.Debug().
		Int("tickers", len(entries)).
		Msg("Watchlist classified")

	return entries
}

// dedupeTickers uppercases, trims and deduplicates tickers, preserving a
// sorted order so classification input never depends on source-list order.
func dedupeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))

	for _, t := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		out = append(out, ticker)
	}

	sort.Strings(out)
	return out
}

package models

import (
	"math"
	"sort"
)

// Signal classifies a watchlist ticker's price action relative to its
// primary support and resistance levels.
type Signal string

const (
	SignalInZone Signal = "IN_ZONE"   // price at or below S1 - buy level reached
	SignalAlert  Signal = "ALERT"     // price within AlertBand above S1
	SignalWait   Signal = "WAIT"      // evaluated neutral: above the alert band, below R1
	SignalNone   Signal = "NO_SIGNAL" // no support level configured - nothing was evaluated
	SignalProfit Signal = "PROFIT"    // price at or above R1 - sell level reached
)

// AlertBand is the fraction above S1 that still counts as approaching the
// buy zone.
const AlertBand = 0.02

// Rank returns the numeric sort priority of a signal. Buy-side signals rank
// first so actionable tickers surface at the top of the watchlist; PROFIT
// ranks last even though it is actionable, because the default view
// prioritizes buying opportunities. The rank is decoupled from the display
// label - never encode priority into label strings.
func (s Signal) Rank() int {
	switch s {
	case SignalInZone:
		return 1
	case SignalAlert:
		return 2
	case SignalWait:
		return 3
	case SignalNone:
		return 4
	case SignalProfit:
		return 5
	default:
		return 6
	}
}

// Label returns the human-readable status for display tables.
func (s Signal) Label() string {
	switch s {
	case SignalInZone:
		return "In Zone"
	case SignalAlert:
		return "Alert"
	case SignalWait:
		return "Wait"
	case SignalNone:
		return "No Signal"
	case SignalProfit:
		return "Profit"
	default:
		return string(s)
	}
}

// WatchlistEntry is one classified watchlist row. Produced fresh each
// refresh - never persisted.
type WatchlistEntry struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	PctDayChange  float64 `json:"pct_day_change"` // signed fraction; 0 when previous close unavailable
	Signal        Signal  `json:"signal"`
	Rank          int     `json:"rank"`

	// DistanceToS1 is (price − S1) / S1 as a signed fraction. Nil when S1 is
	// not configured: such tickers sort after every ticker with a real
	// distance.
	DistanceToS1 *float64 `json:"distance_to_s1"`

	S1 float64 `json:"s1"`
	R1 float64 `json:"r1"`
}

// SortDistance returns the distance used for ordering. Entries without a
// configured support level sort as infinitely far.
func (e WatchlistEntry) SortDistance() float64 {
	if e.DistanceToS1 == nil {
		return math.Inf(1)
	}
	return *e.DistanceToS1
}

// SortWatchlist orders entries for display: rank ascending, then distance to
// S1 ascending (closer to support first), then ticker ascending. The full
// tie-break makes the order deterministic regardless of input order.
func SortWatchlist(entries []WatchlistEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		di, dj := entries[i].SortDistance(), entries[j].SortDistance()
		if di != dj {
			return di < dj
		}
		return entries[i].Ticker < entries[j].Ticker
	})
}

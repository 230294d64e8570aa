package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalRank(t *testing.T) {
	tests := []struct {
		signal Signal
		rank   int
	}{
		{SignalInZone, 1},
		{SignalAlert, 2},
		{SignalWait, 3},
		{SignalNone, 4},
		{SignalProfit, 5},
		{Signal("bogus"), 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.rank, tt.signal.Rank(), "rank of %s", tt.signal)
	}
}

func TestSignalLabel(t *testing.T) {
	assert.Equal(t, "In Zone", SignalInZone.Label())
	assert.Equal(t, "No Signal", SignalNone.Label())
	assert.Equal(t, "Profit", SignalProfit.Label())
}

func dist(v float64) *float64 { return &v }

func TestSortDistance_NilIsInfinite(t *testing.T) {
	e := WatchlistEntry{}
	assert.True(t, math.IsInf(e.SortDistance(), 1))

	e.DistanceToS1 = dist(-0.05)
	assert.Equal(t, -0.05, e.SortDistance())
}

func TestSortWatchlist_RankThenDistanceThenTicker(t *testing.T) {
	entries := []WatchlistEntry{
		{Ticker: "WWW", Signal: SignalWait, Rank: 3, DistanceToS1: dist(0.10)},
		{Ticker: "PPP", Signal: SignalProfit, Rank: 5, DistanceToS1: dist(0.30)},
		{Ticker: "NNN", Signal: SignalNone, Rank: 4},
		{Ticker: "AAA", Signal: SignalAlert, Rank: 2, DistanceToS1: dist(0.015)},
		{Ticker: "ZZZ", Signal: SignalInZone, Rank: 1, DistanceToS1: dist(-0.01)},
		{Ticker: "BBB", Signal: SignalInZone, Rank: 1, DistanceToS1: dist(-0.05)},
	}

	SortWatchlist(entries)

	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.Ticker
	}
	// In-zone entries first, deeper breach first, then alert, wait,
	// no-signal, profit last.
	assert.Equal(t, []string{"BBB", "ZZZ", "AAA", "WWW", "NNN", "PPP"}, order)
}

func TestSortWatchlist_TickerBreaksTies(t *testing.T) {
	entries := []WatchlistEntry{
		{Ticker: "BBB", Rank: 3, DistanceToS1: dist(0.05)},
		{Ticker: "AAA", Rank: 3, DistanceToS1: dist(0.05)},
		{Ticker: "CCC", Rank: 3, DistanceToS1: dist(0.05)},
	}

	SortWatchlist(entries)

	assert.Equal(t, "AAA", entries[0].Ticker)
	assert.Equal(t, "BBB", entries[1].Ticker)
	assert.Equal(t, "CCC", entries[2].Ticker)
}

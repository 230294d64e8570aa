package common

import "time"

// Freshness TTLs for data components
const (
	// FreshnessQuote is the lifetime of a fetched price book. Refreshing the
	// dashboard within this window reuses the previous fetch.
	FreshnessQuote = 60 * time.Second
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}

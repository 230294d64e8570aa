// Package market provides the price provider: a TTL-cached front over the
// market-data client with best-effort fallback semantics.
package market

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/interfaces"
	"github.com/pkanate/sniperdash/internal/models"
)

// Compile-time interface check
var _ interfaces.PriceProvider = (*Service)(nil)

// Service implements PriceProvider. One fetched price book is reused for the
// configured freshness window; a forced refresh bypasses it. Retrieval
// failures never propagate: missing tickers resolve to zero snapshots and a
// failed FX lookup resolves to the configured fallback rate.
type Service struct {
	client interfaces.MarketDataClient
	config common.MarketConfig
	logger *common.Logger
	now    func() time.Time // injectable clock for testing

	mu        sync.Mutex
	cached    *models.PriceBook
	cachedKey string
}

// NewService creates a new market service.
// client may be nil when no market-data API is configured - every fetch then
// degrades to zero prices and the fallback FX rate.
func NewService(client interfaces.MarketDataClient, config common.MarketConfig, logger *common.Logger) *Service {
	return &Service{
		client: client,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// GetPriceBook returns prices for the tickers, reusing the previous fetch
// while it is within the freshness window and covers the same ticker set.
func (s *Service) GetPriceBook(ctx context.Context, tickers []string, force bool) (*models.PriceBook, error) {
	key := cacheKey(tickers)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && s.cached != nil && s.cachedKey == key &&
		s.now().Sub(s.cached.FetchedAt) < s.config.GetCacheTTL() {
		return s.cached, nil
	}

	book := s.fetch(ctx, tickers)
	s.cached = book
	s.cachedKey = key

	return book, nil
}

// fetch performs one best-effort retrieval. Every requested ticker resolves
// to a snapshot and the FX rate is always positive.
func (s *Service) fetch(ctx context.Context, tickers []string) *models.PriceBook {
	book := &models.PriceBook{
		Prices:    make(map[string]models.PriceSnapshot, len(tickers)),
		FetchedAt: s.now(),
	}

	if s.client != nil {
		quotes, err := s.client.GetQuotes(ctx, tickers)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Quote retrieval failed - prices zeroed for this cycle")
		} else {
			for ticker, snap := range quotes {
				book.Prices[ticker] = snap
			}
		}
	}

	// Guarantee an entry per requested ticker so lookups are total.
	for _, t := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker == "" {
			continue
		}
		if _, ok := book.Prices[ticker]; !ok {
			book.Prices[ticker] = models.PriceSnapshot{}
		}
	}

	book.FXRate, book.FXFallback = s.fetchFXRate(ctx)

	return book
}

// fetchFXRate retrieves the FX rate, falling back to the configured constant.
// A zero rate is never returned - that would zero out every converted total.
func (s *Service) fetchFXRate(ctx context.Context) (rate float64, fallback bool) {
	if s.client == nil {
		return s.config.FXFallbackRate, true
	}

	rate, err := s.client.GetFXRate(ctx, s.config.FXPair)
	if err != nil || rate <= 0 {
		s.logger.Warn().
			Err(err).
			Str("pair", s.config.FXPair).
			Float64("fallback", s.config.FXFallbackRate).
			Msg("FX retrieval failed - using fallback rate")
		return s.config.FXFallbackRate, true
	}

	return rate, false
}

// cacheKey normalizes the ticker set so cache hits don't depend on caller
// ordering.
func cacheKey(tickers []string) string {
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker != "" {
			normalized = append(normalized, ticker)
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}

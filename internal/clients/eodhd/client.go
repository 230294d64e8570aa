// Package eodhd provides a client for the EODHD market-data API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkanate/sniperdash/internal/common"
	"github.com/pkanate/sniperdash/internal/interfaces"
	"github.com/pkanate/sniperdash/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Compile-time interface check
var _ interfaces.MarketDataClient = (*Client)(nil)

// Client implements the MarketDataClient interface against EODHD
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// flexFloat64 handles JSON values that may be either a number or a string
// ("NA" and empty map to 0).
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "NA" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// quoteResponse is one row from the real-time endpoint
type quoteResponse struct {
	Code          string      `json:"code"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
}

// GetQuotes retrieves last price and previous close for a batch of tickers
// in a single request. The first ticker goes in the path, the rest in the
// "s" parameter - the EODHD bulk real-time convention.
func (c *Client) GetQuotes(ctx context.Context, tickers []string) (map[string]models.PriceSnapshot, error) {
	if len(tickers) == 0 {
		return map[string]models.PriceSnapshot{}, nil
	}

	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker != "" {
			normalized = append(normalized, ticker)
		}
	}
	if len(normalized) == 0 {
		return map[string]models.PriceSnapshot{}, nil
	}

	params := url.Values{}
	if len(normalized) > 1 {
		params.Set("s", strings.Join(normalized[1:], ","))
	}

	path := fmt.Sprintf("/real-time/%s", normalized[0])

	quotes, err := c.getQuoteRows(ctx, path, params)
	if err != nil {
		return nil, err
	}

	result := make(map[string]models.PriceSnapshot, len(quotes))
	for _, q := range quotes {
		ticker := strings.ToUpper(strings.TrimSpace(q.Code))
		if ticker == "" {
			continue
		}
		result[ticker] = models.PriceSnapshot{
			LastPrice:     float64(q.Close),
			PreviousClose: float64(q.PreviousClose),
		}
	}

	return result, nil
}

// GetFXRate retrieves the current rate for a forex pair such as "USDTHB".
func (c *Client) GetFXRate(ctx context.Context, pair string) (float64, error) {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	if pair == "" {
		return 0, fmt.Errorf("fx pair is required")
	}

	path := fmt.Sprintf("/real-time/%s.FOREX", pair)

	quotes, err := c.getQuoteRows(ctx, path, nil)
	if err != nil {
		return 0, err
	}
	if len(quotes) == 0 {
		return 0, fmt.Errorf("no quote returned for %s", pair)
	}

	rate := float64(quotes[0].Close)
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v for %s", rate, pair)
	}

	return rate, nil
}

// getQuoteRows fetches a real-time endpoint and normalizes the response:
// a single ticker comes back as an object, a batch as an array.
func (c *Client) getQuoteRows(ctx context.Context, path string, params url.Values) ([]quoteResponse, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var quotes []quoteResponse
		if err := json.Unmarshal(raw, &quotes); err != nil {
			return nil, fmt.Errorf("failed to decode quote array: %w", err)
		}
		return quotes, nil
	}

	var quote quoteResponse
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	return []quoteResponse{quote}, nil
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

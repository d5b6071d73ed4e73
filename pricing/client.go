// Package pricing fetches live market prices for the pairs a journal trade
// references. The primary transport is a polled HTTP quote endpoint with
// bounded exponential-backoff retries; when the retries are exhausted the
// client falls back to a single read from the streaming transport. Callers
// only ever see a price or ErrUnavailable, never an unhandled upstream
// failure.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnavailable is the graceful-degradation sentinel: the upstream feed
// could not produce a price after retries and the stream fallback.
var ErrUnavailable = errors.New("pricing: price unavailable")

// Options configure the client. Zero values get sensible defaults.
type Options struct {
	BaseURL     string
	Token       string
	MaxAttempts int           // retry budget per GetPrice call
	RetryDelay  time.Duration // initial backoff, doubles per attempt
	MaxDelay    time.Duration
	Stream      *Stream // optional fallback transport
}

// Client is the HTTP quote client.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	maxDelay    time.Duration
	stream      *Stream
	log         zerolog.Logger
}

func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 10 * time.Second
	}

	return &Client{
		baseURL:     opts.BaseURL,
		token:       opts.Token,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		maxDelay:    opts.MaxDelay,
		stream:      opts.Stream,
		log:         log.With().Str("client", "pricing").Logger(),
	}
}

type quoteResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetPrice returns the current price for a pair. It retries the quote
// endpoint with exponential backoff, then tries one read from the stream
// fallback, then returns ErrUnavailable. The context bounds the whole
// operation.
func (c *Client) GetPrice(ctx context.Context, pair string) (float64, error) {
	if pair == "" {
		return 0, fmt.Errorf("pricing: pair is required")
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		price, err := c.fetchOnce(ctx, pair)
		if err == nil {
			return price, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if attempt < c.maxAttempts-1 {
			c.log.Debug().Err(err).Str("pair", pair).Int("attempt", attempt+1).Msg("quote fetch failed, backing off")
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}
	}

	if c.stream != nil {
		c.log.Warn().Err(lastErr).Str("pair", pair).Msg("quote retries exhausted, trying stream")
		if price, err := c.stream.ReadPrice(ctx, pair); err == nil {
			return price, nil
		}
	}

	c.log.Warn().Err(lastErr).Str("pair", pair).Msg("price unavailable")
	return 0, ErrUnavailable
}

func (c *Client) fetchOnce(ctx context.Context, pair string) (float64, error) {
	apiURL := fmt.Sprintf("%s/v1/quotes/%s", c.baseURL, pair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("quote API error (status %d): %s", resp.StatusCode, string(body))
	}

	var q quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	price, err := strconv.ParseFloat(q.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", q.Price, err)
	}
	return price, nil
}

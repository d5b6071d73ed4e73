package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string, attempts int) *Client {
	return NewClient(Options{
		BaseURL:     baseURL,
		MaxAttempts: attempts,
		RetryDelay:  time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}, zerolog.Nop())
}

func TestGetPrice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quotes/BTCUSDT", r.URL.Path)
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"42000.50"}`))
	}))
	t.Cleanup(srv.Close)

	c := testClient(srv.URL, 3)

	price, err := c.GetPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 42000.50, price, 1e-9)
}

func TestGetPriceSendsAuthHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		w.Write([]byte(`{"symbol":"EURUSD","price":"1.0850"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, Token: "sekrit", RetryDelay: time.Millisecond}, zerolog.Nop())

	_, err := c.GetPrice(context.Background(), "EURUSD")
	require.NoError(t, err)
}

func TestGetPriceRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"100"}`))
	}))
	t.Cleanup(srv.Close)

	c := testClient(srv.URL, 3)

	price, err := c.GetPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, price, 1e-9)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetPriceExhaustedReturnsUnavailable(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := testClient(srv.URL, 3)

	_, err := c.GetPrice(context.Background(), "BTCUSDT")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetPriceBadPayloadUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"not-a-number"}`))
	}))
	t.Cleanup(srv.Close)

	c := testClient(srv.URL, 2)

	_, err := c.GetPrice(context.Background(), "BTCUSDT")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetPriceHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseURL:     srv.URL,
		MaxAttempts: 100,
		RetryDelay:  50 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.GetPrice(ctx, "BTCUSDT")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetPriceEmptyPair(t *testing.T) {
	t.Parallel()

	c := testClient("http://localhost:0", 1)

	_, err := c.GetPrice(context.Background(), "")
	assert.ErrorContains(t, err, "pair is required")
}

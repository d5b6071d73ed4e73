package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Getter is the slice of Client the poller needs.
type Getter interface {
	GetPrice(ctx context.Context, pair string) (float64, error)
}

// Poller repeatedly fetches a price while a trade is being watched. Its
// lifetime is exactly the context's: cancelling the context stops the
// ticker, so a closed watch can never keep updating state behind the
// caller's back.
type Poller struct {
	prices   Getter
	interval time.Duration
	log      zerolog.Logger
}

func NewPoller(prices Getter, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		prices:   prices,
		interval: interval,
		log:      log.With().Str("component", "poller").Logger(),
	}
}

// Watch fetches the pair's price once per interval and hands it to fn.
// Returning false from fn ends the watch (the trade left in_progress, or
// the view moved on). An unavailable price is logged and skipped, never
// fatal. Watch returns ctx.Err() on cancellation and nil when fn stopped
// the watch.
func (p *Poller) Watch(ctx context.Context, pair string, fn func(price float64) bool) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		price, err := p.prices.GetPrice(ctx, pair)
		switch {
		case err == nil:
			if !fn(price) {
				return nil
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return ctx.Err()
		default:
			p.log.Warn().Err(err).Str("pair", pair).Msg("skipping poll tick")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

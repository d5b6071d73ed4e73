// Package signals consumes the broadcast advisory feed: trade ideas pushed
// by a privileged publisher, carrying a pair, entry range and TP/SL levels.
// The feed is read-only input for display; delivery is at-least-once and
// fire-and-forget, so consumers must tolerate duplicates.
package signals

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Signal is one advisory message.
type Signal struct {
	Pair       string    `json:"pair"`
	Message    string    `json:"message"`
	TakeProfit float64   `json:"take_profit"`
	StopLoss   float64   `json:"stop_loss"`
	EntryLow   float64   `json:"entry_low"`
	EntryHigh  float64   `json:"entry_high"`
	Market     string    `json:"market"` // "crypto" or "forex"
	SentAt     time.Time `json:"sent_at"`
}

const (
	baseReconnectDelay = 2 * time.Second
	maxReconnectDelay  = 2 * time.Minute
)

// Subscriber maintains a websocket subscription to the signal feed,
// reconnecting with exponential backoff when the connection drops.
type Subscriber struct {
	url string
	log zerolog.Logger
}

func NewSubscriber(url string, log zerolog.Logger) *Subscriber {
	return &Subscriber{
		url: url,
		log: log.With().Str("component", "signals").Logger(),
	}
}

type feedMsg struct {
	Type   string `json:"type"`
	Signal Signal `json:"signal"`
}

// Subscribe returns a channel of incoming signals. The channel closes when
// the context is cancelled; connection drops are retried with backoff and
// never surface to the consumer.
func (s *Subscriber) Subscribe(ctx context.Context) <-chan Signal {
	out := make(chan Signal)

	go func() {
		defer close(out)

		delay := baseReconnectDelay
		for ctx.Err() == nil {
			err := s.readLoop(ctx, out)
			if ctx.Err() != nil {
				return
			}

			s.log.Warn().Err(err).Dur("retry_in", delay).Msg("signal feed disconnected")
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
		}
	}()

	return out
}

func (s *Subscriber) readLoop(ctx context.Context, out chan<- Signal) error {
	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	s.log.Info().Str("url", s.url).Msg("signal feed connected")

	for {
		var msg feedMsg
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		// heartbeats keep the connection warm, nothing to deliver
		if msg.Type != "signal" {
			continue
		}

		select {
		case out <- msg.Signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

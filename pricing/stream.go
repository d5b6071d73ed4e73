package pricing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const streamReadTimeout = 15 * time.Second

// Stream is the secondary price transport: a websocket subscription used
// when the quote endpoint exhausts its retries.
type Stream struct {
	url string
	log zerolog.Logger
}

func NewStream(url string, log zerolog.Logger) *Stream {
	return &Stream{
		url: url,
		log: log.With().Str("client", "pricing_stream").Logger(),
	}
}

type streamSubscribe struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols"`
}

type streamMsg struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// ReadPrice dials the stream, subscribes to the pair, and returns the first
// price tick for it. Heartbeats and ticks for other symbols are skipped.
// The context bounds the dial and the read; an expired context surfaces as
// its error.
func (s *Stream) ReadPrice(ctx context.Context, pair string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, streamReadTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("dial stream: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub := streamSubscribe{Op: "subscribe", Symbols: []string{pair}}
	if err := wsjson.Write(ctx, conn, sub); err != nil {
		return 0, fmt.Errorf("subscribe: %w", err)
	}

	for {
		var msg streamMsg
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return 0, fmt.Errorf("read stream: %w", err)
		}

		if !strings.EqualFold(msg.Type, "price") {
			continue
		}
		if msg.Symbol != pair || msg.Price == "" {
			continue
		}

		price, err := strconv.ParseFloat(msg.Price, 64)
		if err != nil {
			s.log.Debug().Str("raw", msg.Price).Msg("skipping unparseable tick")
			continue
		}
		return price, nil
	}
}

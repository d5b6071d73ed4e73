package journal

import (
	"context"
	"strconv"
	"time"

	"tradebook/outcome"
)

// ListTradesBetween returns the user's trades created within [start, end),
// oldest first.
func (s *SQLite) ListTradesBetween(ctx context.Context, userID string, start, end time.Time) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at ASC`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Summary aggregates resolved trades for display.
type Summary struct {
	Trades       int
	Wins         int
	Losses       int
	Breakevens   int
	Open         int
	WinRate      float64 // wins / resolved, 0 when nothing resolved
	GrossProfit  float64
	GrossLoss    float64 // absolute magnitude
	NetProfit    float64
	ProfitFactor float64 // gross profit / gross loss, 0 when undivided
}

// Summarize computes the aggregate view the dashboard shows. Unresolved or
// unparseable profit fields contribute nothing to the money columns.
func Summarize(trades []Trade) Summary {
	var s Summary
	s.Trades = len(trades)

	for _, t := range trades {
		switch t.Outcome {
		case outcome.Win:
			s.Wins++
		case outcome.Loss:
			s.Losses++
		case outcome.Breakeven:
			s.Breakevens++
		default:
			s.Open++
		}

		p, err := strconv.ParseFloat(t.Profit, 64)
		if err != nil {
			continue
		}
		s.NetProfit += p
		if p > 0 {
			s.GrossProfit += p
		} else {
			s.GrossLoss += -p
		}
	}

	resolved := s.Wins + s.Losses + s.Breakevens
	if resolved > 0 {
		s.WinRate = float64(s.Wins) / float64(resolved)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	return s
}

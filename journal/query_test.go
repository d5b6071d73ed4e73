package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/outcome"
)

func TestListTradesBetween(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		day.Add(-time.Hour),     // previous day, excluded
		day.Add(9 * time.Hour),  // included
		day.Add(15 * time.Hour), // included
		day.Add(24 * time.Hour), // next day, excluded (end is exclusive)
	}
	for i, ts := range times {
		id := string(rune('A' + i))
		tr := sampleTrade(id, "U1", ts)
		require.NoError(t, s.CreateTrade(ctx, tr, sampleHabit("H"+id, "U1", id)))
	}

	got, err := s.ListTradesBetween(ctx, "U1", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "C", got[1].ID)
}

func TestListTradesBetweenOtherUser(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateTrade(ctx, sampleTrade("T1", "U1", ts), sampleHabit("H1", "U1", "T1")))

	got, err := s.ListTradesBetween(ctx, "U2", ts.Add(-time.Hour), ts.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{Outcome: outcome.Win, Profit: "300.00"},
		{Outcome: outcome.Win, Profit: "150.00"},
		{Outcome: outcome.Loss, Profit: "-100.00"},
		{Outcome: outcome.Breakeven, Profit: "0.00"},
		{Outcome: outcome.Running, Profit: ""},
	}

	s := Summarize(trades)

	assert.Equal(t, 5, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Breakevens)
	assert.Equal(t, 1, s.Open)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 450.0, s.GrossProfit, 1e-9)
	assert.InDelta(t, 100.0, s.GrossLoss, 1e-9)
	assert.InDelta(t, 350.0, s.NetProfit, 1e-9)
	assert.InDelta(t, 4.5, s.ProfitFactor, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)

	assert.Zero(t, s.Trades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.ProfitFactor)
}

func TestSummarizeNoLosses(t *testing.T) {
	t.Parallel()

	s := Summarize([]Trade{{Outcome: outcome.Win, Profit: "200.00"}})

	assert.InDelta(t, 1.0, s.WinRate, 1e-9)
	assert.InDelta(t, 200.0, s.GrossProfit, 1e-9)
	// no gross loss, profit factor stays unset rather than dividing by zero
	assert.Zero(t, s.ProfitFactor)
}

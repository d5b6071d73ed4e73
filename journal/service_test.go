package journal

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/outcome"
	"tradebook/profit"
)

type fakePrices struct {
	price float64
	err   error
}

func (f *fakePrices) GetPrice(ctx context.Context, pair string) (float64, error) {
	return f.price, f.err
}

type fakeUploader struct {
	url  string
	err  error
	seen string
}

func (f *fakeUploader) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	f.seen = name
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestService(t *testing.T, prices PriceSource, uploads Uploader) (*Service, *SQLite) {
	t.Helper()
	store, _ := newTestSQLite(t)
	return NewService(store, prices, uploads, zerolog.Nop()), store
}

func validNewTrade(userID string) NewTrade {
	return NewTrade{
		UserID:       userID,
		Pair:         "BTCUSDT",
		Direction:    outcome.Long,
		Entry:        100,
		StopLoss:     95,
		TakeProfits:  []float64{110},
		PositionSize: 1000,
		PositionUnit: profit.USD,
		Leverage:     10,
		Crypto:       true,
		HadPlan:      true,
		PlanFollowed: true,
	}
}

func TestSaveTradePersistsTradeHabitAndStreak(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, nil, nil)
	ctx := context.Background()

	saved, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, outcome.InProgress, saved.Status)
	assert.Equal(t, outcome.Running, saved.Outcome)
	assert.InDelta(t, 2.0, saved.RR, 1e-9) // (110-100)/(100-95)

	habits, err := store.ListHabits(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, saved.ID, habits[0].TradeID)
	assert.Equal(t, 1, habits[0].Streak)

	rec, err := store.GetStreak(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.BestUnbrokenTrades)
	assert.Equal(t, 1, rec.BestUnbrokenDays)
}

func TestSaveTradeValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*NewTrade)
		want   string
	}{
		{"missing_pair", func(nt *NewTrade) { nt.Pair = "" }, "pair is required"},
		{"bad_direction", func(nt *NewTrade) { nt.Direction = "sideways" }, "direction"},
		{"zero_entry", func(nt *NewTrade) { nt.Entry = 0 }, "entry"},
		{"negative_stop", func(nt *NewTrade) { nt.StopLoss = -1 }, "stop-loss"},
		{"no_take_profits", func(nt *NewTrade) { nt.TakeProfits = nil }, "take-profits"},
		{"too_many_take_profits", func(nt *NewTrade) { nt.TakeProfits = []float64{1, 2, 3, 4, 5, 6} }, "take-profits"},
		{"zero_size", func(nt *NewTrade) { nt.PositionSize = 0 }, "position size"},
		{"sub_one_leverage", func(nt *NewTrade) { nt.Leverage = 0.5 }, "leverage"},
		{"bad_unit", func(nt *NewTrade) { nt.PositionUnit = "Shares" }, "position unit"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			nt := validNewTrade("U1")
			tt.mutate(&nt)
			_, err := svc.SaveTrade(ctx, nt)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSaveTradeUploadsScreenshot(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{url: "https://img.example/shot.png"}
	svc, _ := newTestService(t, nil, up)

	nt := validNewTrade("U1")
	nt.Screenshot = strings.NewReader("fake-png")
	nt.ScreenshotName = "entry.png"

	saved, err := svc.SaveTrade(context.Background(), nt)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/shot.png", saved.ScreenshotURL)
	assert.Equal(t, "entry.png", up.seen)
}

func TestSaveTradeUploadFailureAbortsSave(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{err: errors.New("cdn down")}
	svc, store := newTestService(t, nil, up)
	ctx := context.Background()

	nt := validNewTrade("U1")
	nt.Screenshot = strings.NewReader("fake-png")

	_, err := svc.SaveTrade(ctx, nt)
	assert.ErrorContains(t, err, "upload screenshot")

	trades, err := store.ListTrades(ctx, "U1")
	require.NoError(t, err)
	assert.Empty(t, trades, "no trade may be saved with a broken image reference")
}

func TestCloseTradeStructuralWin(t *testing.T) {
	t.Parallel()

	// price source failing means the resolver falls back to the
	// structural comparison; the close must still succeed
	svc, store := newTestService(t, &fakePrices{err: errors.New("rate limited")}, nil)
	ctx := context.Background()

	saved, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)

	closed, err := svc.CloseTrade(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, outcome.Completed, closed.Status)
	assert.Equal(t, outcome.Win, closed.Outcome)
	// 10% move x 10x leverage x 1000 notional - 100 margin
	assert.Equal(t, "1000.00", closed.Profit)
	assert.True(t, closed.IsEdited)

	got, err := store.GetTrade(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, closed.Outcome, got.Outcome)
	assert.Equal(t, closed.Profit, got.Profit)
}

func TestCloseTradeWithLivePriceLoss(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakePrices{price: 94}, nil)
	ctx := context.Background()

	saved, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)

	closed, err := svc.CloseTrade(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, outcome.Loss, closed.Outcome)
	// exit at stop 95: -5% x 10x x 1000 - 100 margin
	assert.Equal(t, "-600.00", closed.Profit)
}

func TestCloseTradeLotModelSignsLoss(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	nt := NewTrade{
		UserID:       "U1",
		Pair:         "EURUSD",
		Direction:    outcome.Long,
		Entry:        1.2000,
		StopLoss:     1.1950,
		TakeProfits:  []float64{1.1960}, // structurally below entry: not a win
		PositionSize: 0.5,
		PositionUnit: profit.Lots,
		Leverage:     1,
		HadPlan:      true,
		PlanFollowed: true,
	}

	saved, err := svc.SaveTrade(ctx, nt)
	require.NoError(t, err)

	closed, err := svc.CloseTrade(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, outcome.Loss, closed.Outcome)
	// 50 pips x 0.5 lots x $10/pip, negative because it is a loss
	assert.Equal(t, "-250.00", closed.Profit)
}

func TestCloseTradeAlreadyFinalizedIsUntouched(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	saved, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)

	first, err := svc.CloseTrade(ctx, saved.ID)
	require.NoError(t, err)

	again, err := svc.CloseTrade(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Outcome, again.Outcome)
	assert.Equal(t, first.Profit, again.Profit)
}

func TestRecordViolationResetsRunningStreak(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)
	_, err = svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)

	require.NoError(t, svc.RecordViolation(ctx, "U1"))

	totals, err := svc.RefreshStreak(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, 0, totals.CurrentTrades)
	assert.Equal(t, 2, totals.MaxTrades)
}

func TestDeleteTradeRecomputesStreak(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, nil, nil)
	ctx := context.Background()

	t1, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)
	_, err = svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)

	rec, err := store.GetStreak(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.BestUnbrokenTrades)

	require.NoError(t, svc.DeleteTrade(ctx, t1.ID))

	rec, err = store.GetStreak(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.BestUnbrokenTrades, "recompute from history, not incremental")
}

func TestResetStreakZeroesRecord(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.SaveTrade(ctx, validNewTrade("U1"))
	require.NoError(t, err)

	require.NoError(t, svc.ResetStreak(ctx, "U1"))

	rec, err := store.GetStreak(ctx, "U1")
	require.NoError(t, err)
	assert.Zero(t, rec.BestUnbrokenTrades)
	assert.Zero(t, rec.BestUnbrokenDays)
}

package journal

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"

	"tradebook/outcome"
	"tradebook/pkg/id"
	"tradebook/profit"
	"tradebook/risk"
	"tradebook/streak"
)

// PriceSource fetches a live market price for a pair. Implementations
// degrade to an error when the upstream feed is down; the service treats
// that as "no live price", never as a failure of the enclosing operation.
type PriceSource interface {
	GetPrice(ctx context.Context, pair string) (float64, error)
}

// Uploader stores a screenshot and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Service runs the computation engine against the store: it resolves
// outcomes, derives profit, and keeps the per-user streak record in sync
// with the full trade history.
type Service struct {
	store   Store
	prices  PriceSource // optional
	uploads Uploader    // optional
	log     zerolog.Logger
}

func NewService(store Store, prices PriceSource, uploads Uploader, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		prices:  prices,
		uploads: uploads,
		log:     log.With().Str("component", "journal").Logger(),
	}
}

// NewTrade carries the validated form input for one trade plus its habit
// flags. Screenshot is optional; when set the upload must succeed before
// anything is persisted.
type NewTrade struct {
	UserID       string
	Pair         string
	Direction    outcome.Direction
	Entry        float64
	StopLoss     float64
	TakeProfits  []float64
	PositionSize float64
	PositionUnit profit.Unit
	Leverage     float64
	Crypto       bool
	Emotions     string
	Notes        string
	Tags         []string

	Screenshot     io.Reader
	ScreenshotName string

	HadPlan      bool
	PlanFollowed bool
	WasGamble    bool
}

// Validate rejects input before any network or store call. The core
// calculators are fail-soft, but they must never see a raw or non-finite
// value in the first place.
func (nt NewTrade) Validate() error {
	if nt.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if nt.Pair == "" {
		return fmt.Errorf("pair is required")
	}
	if nt.Direction != outcome.Long && nt.Direction != outcome.Short {
		return fmt.Errorf("direction must be %q or %q", outcome.Long, outcome.Short)
	}
	if !isFinite(nt.Entry) || nt.Entry <= 0 {
		return fmt.Errorf("entry must be a positive number")
	}
	if !isFinite(nt.StopLoss) || nt.StopLoss <= 0 {
		return fmt.Errorf("stop-loss must be a positive number")
	}
	if len(nt.TakeProfits) == 0 || len(nt.TakeProfits) > 5 {
		return fmt.Errorf("between 1 and 5 take-profits required")
	}
	for _, tp := range nt.TakeProfits {
		if !isFinite(tp) || tp <= 0 {
			return fmt.Errorf("take-profit must be a positive number")
		}
	}
	if !isFinite(nt.PositionSize) || nt.PositionSize <= 0 {
		return fmt.Errorf("position size must be a positive number")
	}
	if !isFinite(nt.Leverage) || nt.Leverage < 1 {
		return fmt.Errorf("leverage must be at least 1")
	}
	switch nt.PositionUnit {
	case profit.USD, profit.Lots, profit.CoinValue:
	default:
		return fmt.Errorf("unknown position unit %q", nt.PositionUnit)
	}
	return nil
}

// SaveTrade validates, uploads the screenshot if any, persists the trade
// and its habit as one unit, then rescans the history and upserts the
// streak record. An upload failure aborts the whole save; no trade is ever
// stored with a broken image reference.
func (s *Service) SaveTrade(ctx context.Context, nt NewTrade) (Trade, error) {
	if err := nt.Validate(); err != nil {
		return Trade{}, err
	}

	var screenshotURL string
	if nt.Screenshot != nil {
		if s.uploads == nil {
			return Trade{}, fmt.Errorf("screenshot given but no uploader configured")
		}
		url, err := s.uploads.Upload(ctx, nt.ScreenshotName, nt.Screenshot)
		if err != nil {
			return Trade{}, fmt.Errorf("upload screenshot: %w", err)
		}
		screenshotURL = url
	}

	t := Trade{
		ID:            id.New(),
		UserID:        nt.UserID,
		CreatedAt:     time.Now().UTC(),
		Pair:          nt.Pair,
		Direction:     nt.Direction,
		Status:        outcome.InProgress,
		Entry:         nt.Entry,
		StopLoss:      nt.StopLoss,
		TakeProfits:   nt.TakeProfits,
		PositionSize:  nt.PositionSize,
		PositionUnit:  nt.PositionUnit,
		Leverage:      nt.Leverage,
		Crypto:        nt.Crypto,
		Outcome:       outcome.Running,
		Emotions:      nt.Emotions,
		Notes:         nt.Notes,
		Tags:          nt.Tags,
		ScreenshotURL: screenshotURL,
		RuleBroken:    nt.WasGamble,
		RR:            risk.RR(nt.Entry, nt.StopLoss, nt.TakeProfits[0]),
	}

	h := Habit{
		ID:           id.New(),
		UserID:       nt.UserID,
		TradeID:      t.ID,
		HadPlan:      nt.HadPlan,
		PlanFollowed: nt.PlanFollowed,
		WasGamble:    nt.WasGamble,
	}
	h.Normalize()

	if err := s.store.CreateTrade(ctx, t, h); err != nil {
		return Trade{}, fmt.Errorf("save trade: %w", err)
	}

	if _, err := s.RefreshStreak(ctx, nt.UserID); err != nil {
		// the trade is saved; a stale streak row is recoverable on the
		// next mutation, so report rather than fail
		s.log.Error().Err(err).Str("user_id", nt.UserID).Msg("streak refresh after save failed")
	}

	s.log.Info().Str("trade_id", t.ID).Str("pair", t.Pair).Msg("trade saved")
	return t, nil
}

// CloseTrade finalizes a trade: it resolves the outcome (against a live
// price when one can be fetched, structurally otherwise), derives the
// profit from the implied exit, and persists outcome, profit, status and
// the edited flag in a single write. A trade already finalized is returned
// untouched.
func (s *Service) CloseTrade(ctx context.Context, tradeID string) (Trade, error) {
	t, err := s.store.GetTrade(ctx, tradeID)
	if err != nil {
		return Trade{}, err
	}
	if t.IsEdited {
		return t, nil
	}

	in := outcome.Inputs{
		Entry:       t.Entry,
		StopLoss:    t.StopLoss,
		TakeProfits: t.TakeProfits,
		Direction:   t.Direction,
		Status:      outcome.Completed,
		LivePrice:   s.livePrice(ctx, t.Pair),
	}

	o := outcome.Resolve(in)
	exit := profit.ExitPrice(o, in)

	p := profit.Calculate(profit.Inputs{
		Size:     t.PositionSize,
		Leverage: t.Leverage,
		Entry:    t.Entry,
		Exit:     exit,
		Crypto:   t.Crypto,
		Unit:     t.PositionUnit,
	})
	if !t.Crypto && t.PositionUnit == profit.Lots {
		// the lot model returns a magnitude; the sign comes from the outcome
		p = profit.Signed(o, p)
	}

	t.Status = outcome.Completed
	t.Outcome = o
	t.Profit = p
	t.IsEdited = true

	if err := s.store.UpdateTrade(ctx, t); err != nil {
		return Trade{}, fmt.Errorf("close trade: %w", err)
	}

	s.log.Info().Str("trade_id", t.ID).Str("outcome", string(o)).Str("profit", p).Msg("trade closed")
	return t, nil
}

// DeleteTrade removes the trade (the habit cascades) and brings the streak
// record back in line with the remaining history.
func (s *Service) DeleteTrade(ctx context.Context, tradeID string) error {
	t, err := s.store.GetTrade(ctx, tradeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTrade(ctx, tradeID); err != nil {
		return err
	}
	if _, err := s.RefreshStreak(ctx, t.UserID); err != nil {
		return fmt.Errorf("streak refresh after delete: %w", err)
	}
	return nil
}

// RecordViolation logs a rule-broken marker trade, which resets the running
// streak without carrying any risk numbers worth analyzing.
func (s *Service) RecordViolation(ctx context.Context, userID string) error {
	t := Trade{
		ID:           id.New(),
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
		Pair:         "NONE",
		Direction:    outcome.Long,
		Status:       outcome.Completed,
		Entry:        1,
		StopLoss:     1,
		TakeProfits:  []float64{1},
		PositionSize: 0,
		PositionUnit: profit.USD,
		Leverage:     1,
		Outcome:      outcome.Breakeven,
		Profit:       "0.00",
		IsEdited:     true,
		RuleBroken:   true,
	}
	h := Habit{
		ID:        id.New(),
		UserID:    userID,
		TradeID:   t.ID,
		WasGamble: true,
	}
	h.Normalize()

	if err := s.store.CreateTrade(ctx, t, h); err != nil {
		return fmt.Errorf("record violation: %w", err)
	}
	if _, err := s.RefreshStreak(ctx, userID); err != nil {
		return fmt.Errorf("streak refresh after violation: %w", err)
	}
	return nil
}

// RefreshStreak rescans the user's full history, computes the streak
// aggregates from scratch, and upserts the record. Recomputing instead of
// incrementing keeps the row correct under deletes and backfill.
func (s *Service) RefreshStreak(ctx context.Context, userID string) (streak.Totals, error) {
	trades, err := s.store.ListTrades(ctx, userID)
	if err != nil {
		return streak.Totals{}, err
	}

	input := make([]streak.Trade, len(trades))
	for i, t := range trades {
		input[i] = streak.Trade{CreatedAt: t.CreatedAt, Violation: t.RuleBroken}
	}

	totals := streak.Compute(input)

	rec := StreakRecord{
		UserID:             userID,
		BestUnbrokenTrades: totals.MaxTrades,
		BestUnbrokenDays:   totals.MaxDays,
		UpdatedAt:          time.Now().UTC(),
	}
	if err := s.store.UpsertStreak(ctx, rec); err != nil {
		return streak.Totals{}, err
	}
	return totals, nil
}

// ResetStreak explicitly zeroes the high-water marks; this is the only way
// they decrease outside a history rescan.
func (s *Service) ResetStreak(ctx context.Context, userID string) error {
	return s.store.UpsertStreak(ctx, StreakRecord{
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *Service) livePrice(ctx context.Context, pair string) *float64 {
	if s.prices == nil {
		return nil
	}
	p, err := s.prices.GetPrice(ctx, pair)
	if err != nil {
		s.log.Warn().Err(err).Str("pair", pair).Msg("live price unavailable, resolving structurally")
		return nil
	}
	return &p
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Package journal holds the persisted trading-journal records and the store
// boundary the rest of the application talks through. The computation
// packages (outcome, profit, streak) never touch the store themselves; the
// Service in this package runs them and writes the results back.
package journal

import (
	"context"
	"time"

	"tradebook/outcome"
	"tradebook/profit"
)

// Trade is one logged position. ID, UserID and CreatedAt are immutable once
// set. Outcome and Profit are derived fields written by the Service; once a
// trade is completed with IsEdited set they are final by convention.
type Trade struct {
	ID            string
	UserID        string
	CreatedAt     time.Time
	Pair          string
	Direction     outcome.Direction
	Status        outcome.Status
	Entry         float64
	StopLoss      float64
	TakeProfits   []float64 // 1..5 targets, any-hit wins
	PositionSize  float64
	PositionUnit  profit.Unit
	Leverage      float64
	Crypto        bool
	Outcome       outcome.Outcome // empty until resolved
	Profit        string          // 2-digit decimal string, empty until derived
	IsEdited      bool
	Emotions      string
	Notes         string
	Tags          []string
	ScreenshotURL string
	RuleBroken    bool
	RR            float64
}

// Habit is the discipline record created alongside each trade, keyed by the
// trade id.
type Habit struct {
	ID           string
	UserID       string
	TradeID      string
	HadPlan      bool
	PlanFollowed bool
	WasGamble    bool
	Streak       int // credit assigned to this trade at creation time
}

// Normalize enforces that PlanFollowed and WasGamble are mutually exclusive
// and recomputes the per-trade streak credit: 1 when a plan was had and
// followed, 0 otherwise.
func (h *Habit) Normalize() {
	if h.WasGamble {
		h.PlanFollowed = false
	}
	if h.HadPlan && h.PlanFollowed && !h.WasGamble {
		h.Streak = 1
	} else {
		h.Streak = 0
	}
}

// StreakRecord is the single per-user row of best unbroken runs. It is
// recomputed from the full trade history on every mutation and upserted,
// never appended.
type StreakRecord struct {
	UserID             string
	BestUnbrokenTrades int
	BestUnbrokenDays   int
	UpdatedAt          time.Time
}

// Store is the data-access boundary. CreateTrade persists the trade and its
// habit as one transaction; DeleteTrade cascades to the habit row;
// UpsertStreak is idempotent and keyed by user id.
type Store interface {
	CreateTrade(ctx context.Context, t Trade, h Habit) error
	GetTrade(ctx context.Context, id string) (Trade, error)
	UpdateTrade(ctx context.Context, t Trade) error
	DeleteTrade(ctx context.Context, id string) error
	ListTrades(ctx context.Context, userID string) ([]Trade, error)
	ListHabits(ctx context.Context, userID string) ([]Habit, error)
	UpsertStreak(ctx context.Context, rec StreakRecord) error
	GetStreak(ctx context.Context, userID string) (StreakRecord, error)
	Close() error
}

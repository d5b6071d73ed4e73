package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"tradebook/outcome"
	"tradebook/profit"
)

// SQLite is the production Store implementation.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path and applies the
// schema. Foreign keys are switched on so deleting a trade removes its habit
// row.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

const tradeColumns = `id, user_id, created_at, pair, direction, status, entry, stop_loss, take_profits, position_size, position_unit, leverage, is_crypto, outcome, profit, is_edited, emotions, notes, tags, screenshot_url, rule_broken, rr_ratio`

// CreateTrade inserts the trade and its habit record inside one
// transaction. A trade without its habit (or the reverse) is never visible.
func (s *SQLite) CreateTrade(ctx context.Context, t Trade, h Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.CreatedAt, t.Pair, string(t.Direction), string(t.Status),
		t.Entry, t.StopLoss, joinFloats(t.TakeProfits), t.PositionSize,
		string(t.PositionUnit), t.Leverage, t.Crypto, string(t.Outcome), t.Profit,
		t.IsEdited, t.Emotions, t.Notes, strings.Join(t.Tags, ","),
		t.ScreenshotURL, t.RuleBroken, t.RR,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, trade_id, had_plan, plan_followed, was_gamble, streak)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.TradeID, h.HadPlan, h.PlanFollowed, h.WasGamble, h.Streak,
	)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}

	return tx.Commit()
}

// GetTrade returns a single trade by id.
func (s *SQLite) GetTrade(ctx context.Context, id string) (Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ?`, id)

	t, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Trade{}, fmt.Errorf("trade %q not found", id)
		}
		return Trade{}, err
	}
	return t, nil
}

// UpdateTrade rewrites every mutable field of the trade in one statement.
// Outcome and profit always travel together in the same write.
func (s *SQLite) UpdateTrade(ctx context.Context, t Trade) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET pair = ?, direction = ?, status = ?, entry = ?, stop_loss = ?,
		    take_profits = ?, position_size = ?, position_unit = ?, leverage = ?,
		    is_crypto = ?, outcome = ?, profit = ?, is_edited = ?, emotions = ?,
		    notes = ?, tags = ?, screenshot_url = ?, rule_broken = ?, rr_ratio = ?
		WHERE id = ?`,
		t.Pair, string(t.Direction), string(t.Status), t.Entry, t.StopLoss,
		joinFloats(t.TakeProfits), t.PositionSize, string(t.PositionUnit),
		t.Leverage, t.Crypto, string(t.Outcome), t.Profit, t.IsEdited,
		t.Emotions, t.Notes, strings.Join(t.Tags, ","), t.ScreenshotURL,
		t.RuleBroken, t.RR, t.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q not found", t.ID)
	}
	return nil
}

// DeleteTrade removes the trade; the habit row goes with it via the foreign
// key cascade.
func (s *SQLite) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q not found", id)
	}
	return nil
}

// ListTrades returns the user's full history, newest first.
func (s *SQLite) ListTrades(ctx context.Context, userID string) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
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

// ListHabits returns the user's habit records.
func (s *SQLite) ListHabits(ctx context.Context, userID string) ([]Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, trade_id, had_plan, plan_followed, was_gamble, streak
		FROM habits
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		var h Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.TradeID, &h.HadPlan, &h.PlanFollowed, &h.WasGamble, &h.Streak); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpsertStreak writes the single per-user streak row. Re-upserting the same
// values is a no-op beyond the timestamp.
func (s *SQLite) UpsertStreak(ctx context.Context, rec StreakRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streak_records (user_id, best_unbroken_trades, best_unbroken_days, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			best_unbroken_trades = excluded.best_unbroken_trades,
			best_unbroken_days = excluded.best_unbroken_days,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.BestUnbrokenTrades, rec.BestUnbrokenDays, rec.UpdatedAt,
	)
	return err
}

// GetStreak returns the user's streak record, or a zero record if none has
// been written yet.
func (s *SQLite) GetStreak(ctx context.Context, userID string) (StreakRecord, error) {
	var rec StreakRecord
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, best_unbroken_trades, best_unbroken_days, updated_at
		FROM streak_records
		WHERE user_id = ?`, userID)

	err := row.Scan(&rec.UserID, &rec.BestUnbrokenTrades, &rec.BestUnbrokenDays, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return StreakRecord{UserID: userID}, nil
	}
	if err != nil {
		return StreakRecord{}, err
	}
	return rec, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (Trade, error) {
	var (
		t         Trade
		direction string
		status    string
		tps       string
		unit      string
		out       string
		tags      string
	)

	err := row.Scan(
		&t.ID, &t.UserID, &t.CreatedAt, &t.Pair, &direction, &status,
		&t.Entry, &t.StopLoss, &tps, &t.PositionSize, &unit, &t.Leverage,
		&t.Crypto, &out, &t.Profit, &t.IsEdited, &t.Emotions, &t.Notes,
		&tags, &t.ScreenshotURL, &t.RuleBroken, &t.RR,
	)
	if err != nil {
		return Trade{}, err
	}

	t.Direction = outcome.Direction(direction)
	t.Status = outcome.Status(status)
	t.PositionUnit = profit.Unit(unit)
	t.Outcome = outcome.Outcome(out)
	t.TakeProfits, err = splitFloats(tps)
	if err != nil {
		return Trade{}, fmt.Errorf("trade %s: bad take_profits: %w", t.ID, err)
	}
	if tags != "" {
		t.Tags = strings.Split(tags, ",")
	}
	return t, nil
}

func joinFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func splitFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

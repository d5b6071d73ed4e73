// Package streak counts consecutive disciplined trades and the distinct
// calendar days they span. A discipline violation resets both running
// counts; high-water marks survive the reset.
package streak

import (
	"sort"
	"time"
)

// Trade is the slice of a journal record the aggregator cares about.
type Trade struct {
	CreatedAt time.Time
	Violation bool
}

// Totals holds the running and best streak counts.
type Totals struct {
	CurrentTrades int
	CurrentDays   int
	MaxTrades     int
	MaxDays       int
}

// Compute walks the full trade history in creation order and returns the
// current and best unbroken runs. Callers may pass trades in any order; the
// input is copied and sorted ascending by creation time here, so the result
// is order-independent. The whole history is rescanned on every mutation
// rather than maintained incrementally, which keeps the counts correct
// under deletion and backfill at O(n) cost.
//
// Several trades on one calendar day each advance the trade count but add a
// single day, so the two counts can diverge. A violating trade does not
// count toward the streak it starts.
func Compute(trades []Trade) Totals {
	ordered := make([]Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var t Totals
	days := make(map[string]struct{})

	for _, tr := range ordered {
		if tr.Violation {
			t.CurrentTrades = 0
			days = make(map[string]struct{})
			t.CurrentDays = 0
			continue
		}

		t.CurrentTrades++
		days[tr.CreatedAt.Local().Format("2006-01-02")] = struct{}{}
		t.CurrentDays = len(days)

		if t.CurrentTrades > t.MaxTrades {
			t.MaxTrades = t.CurrentTrades
		}
		if t.CurrentDays > t.MaxDays {
			t.MaxDays = t.CurrentDays
		}
	}

	return t
}

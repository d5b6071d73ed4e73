package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"id", "created_at", "pair", "direction", "status", "entry", "stop_loss",
	"take_profits", "position_size", "position_unit", "leverage", "is_crypto",
	"outcome", "profit", "rr_ratio", "emotions", "notes", "tags",
	"screenshot_url", "rule_broken",
}

// ExportCSV writes the trades as CSV, header first.
func ExportCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			t.ID,
			t.CreatedAt.UTC().Format(time.RFC3339),
			t.Pair,
			string(t.Direction),
			string(t.Status),
			f(t.Entry),
			f(t.StopLoss),
			joinFloats(t.TakeProfits),
			f(t.PositionSize),
			string(t.PositionUnit),
			f(t.Leverage),
			strconv.FormatBool(t.Crypto),
			string(t.Outcome),
			t.Profit,
			f(t.RR),
			t.Emotions,
			t.Notes,
			strings.Join(t.Tags, ","),
			t.ScreenshotURL,
			strconv.FormatBool(t.RuleBroken),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a trade as an Org-mode block suitable for pasting
// into a written journal. Structured facts live in a PROPERTIES drawer for
// easy search; the free-text fields follow as sections.
func FormatTradeOrg(t Trade) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Pair, t.Direction, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":PAIR: %s\n", t.Pair))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":ENTRY: %.5f\n", t.Entry))
	b.WriteString(fmt.Sprintf(":STOP_LOSS: %.5f\n", t.StopLoss))
	b.WriteString(fmt.Sprintf(":TAKE_PROFITS: %s\n", joinFloats(t.TakeProfits)))
	b.WriteString(fmt.Sprintf(":SIZE: %g %s\n", t.PositionSize, t.PositionUnit))
	b.WriteString(fmt.Sprintf(":LEVERAGE: %gx\n", t.Leverage))
	b.WriteString(fmt.Sprintf(":RR: %.2f\n", t.RR))
	if t.Outcome != "" {
		b.WriteString(fmt.Sprintf(":OUTCOME: %s\n", t.Outcome))
	}
	if t.Profit != "" {
		b.WriteString(fmt.Sprintf(":PROFIT: %s\n", t.Profit))
	}
	if len(t.Tags) > 0 {
		b.WriteString(fmt.Sprintf(":TAGS: %s\n", strings.Join(t.Tags, ",")))
	}
	if t.RuleBroken {
		b.WriteString(":RULE_BROKEN: t\n")
	}
	b.WriteString(fmt.Sprintf(":CREATED: %s\n", t.CreatedAt.UTC().Format(time.RFC3339)))
	b.WriteString(":END:\n")

	if t.Emotions != "" {
		b.WriteString("\n*** Emotions\n")
		b.WriteString(fmt.Sprintf("- %s\n", t.Emotions))
	}
	if t.Notes != "" {
		b.WriteString("\n*** Notes\n")
		b.WriteString(fmt.Sprintf("- %s\n", t.Notes))
	}
	if t.ScreenshotURL != "" {
		b.WriteString("\n*** Screenshot\n")
		b.WriteString(fmt.Sprintf("[[%s]]\n", t.ScreenshotURL))
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

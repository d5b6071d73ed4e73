package risk

import "math"

// RR computes the risk-reward ratio from the entry/stop/target distances.
// Returns 0 when the stop distance is zero rather than dividing by it.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// Inputs describe a planned position for risk evaluation. Lots selects the
// forex lot-sizing convention; otherwise Size is notional exposure in
// account currency.
type Inputs struct {
	Entry      float64
	Stop       float64
	TakeProfit float64
	Size       float64
	Leverage   float64
	Lots       bool
}

// Fixed $10-per-pip-per-standard-lot convention, 1 pip = 0.0001.
const (
	pipFactor      = 10000
	pipValuePerLot = 10
)

// PlannedRisk returns the account-currency amount lost if the stop is hit.
func PlannedRisk(in Inputs) float64 {
	if in.Lots {
		pips := math.Abs(in.Entry-in.Stop) * pipFactor
		return pips * in.Size * pipValuePerLot * in.Leverage
	}
	if in.Entry == 0 {
		return 0
	}
	move := math.Abs(in.Entry-in.Stop) / in.Entry
	return move * in.Size * in.Leverage
}

// RiskPct expresses a planned risk amount as a fraction of equity.
func RiskPct(plannedRisk, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return plannedRisk / equity
}

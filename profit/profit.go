// Package profit computes realized profit/loss in account currency from a
// trade's sizing and its resolved exit price.
package profit

import (
	"math"
	"strconv"

	"tradebook/outcome"
)

// Unit is how a position size is denominated.
type Unit string

const (
	USD       Unit = "USD"
	Lots      Unit = "Lots"
	CoinValue Unit = "CoinValue"
)

// Fixed forex conventions: 1 pip = 0.0001 in price terms, $10 per pip per
// standard lot.
const (
	pipFactor      = 10000
	pipValuePerLot = 10
)

// Inputs select one of two numeric models by instrument class and unit.
type Inputs struct {
	Size     float64
	Leverage float64
	Entry    float64
	Exit     float64
	Crypto   bool
	Unit     Unit
}

// Calculate returns the profit as a fixed-point decimal string with two
// fraction digits. Any non-finite intermediate yields "0.00" instead of an
// error, matching the resolver's fail-soft contract. An entry price of zero
// is invalid input (division by zero in the fractional-change term); it is
// the caller's job to reject it up front, but it still lands in the
// non-finite guard here rather than panicking.
//
// Margined-notional model (crypto positions sized in USD): Size is notional
// exposure, the posted margin is Size/Leverage, and profit is the leveraged
// price move minus that margin.
//
// Lot model (forex positions sized in lots): profit is pips moved times
// $10/pip/lot times lots times leverage. The pip difference is absolute, so
// this model returns a magnitude; the caller derives the sign from the
// trade's direction and outcome.
func Calculate(in Inputs) string {
	var p float64

	if !in.Crypto && in.Unit == Lots {
		pips := math.Abs(in.Exit-in.Entry) * pipFactor
		p = pips * in.Size * pipValuePerLot * in.Leverage
	} else {
		margin := in.Size / in.Leverage
		frac := (in.Exit - in.Entry) / in.Entry
		p = frac*in.Size*in.Leverage - margin
	}

	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "0.00"
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// ExitPrice picks the exit the resolved outcome implies: the first hit
// take-profit on a Win, the stop-loss on a Loss, the entry on Breakeven,
// and the live price (when known) for a trade still running.
func ExitPrice(o outcome.Outcome, in outcome.Inputs) float64 {
	switch o {
	case outcome.Win:
		for _, tp := range in.TakeProfits {
			if in.Direction == outcome.Short {
				if tp < in.Entry {
					return tp
				}
			} else if tp > in.Entry {
				return tp
			}
		}
		if len(in.TakeProfits) > 0 {
			return in.TakeProfits[0]
		}
		return in.Entry
	case outcome.Loss:
		return in.StopLoss
	case outcome.Running:
		if in.LivePrice != nil {
			return *in.LivePrice
		}
		return in.Entry
	default:
		return in.Entry
	}
}

// Signed applies the outcome's sign to a calculated magnitude string. The
// lot model emits unsigned magnitudes, so a Loss must be flipped negative
// here rather than inside Calculate.
func Signed(o outcome.Outcome, amount string) string {
	if o != outcome.Loss {
		return amount
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil || f == 0 {
		return amount
	}
	return strconv.FormatFloat(-math.Abs(f), 'f', 2, 64)
}

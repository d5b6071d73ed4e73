// Package outcome decides whether a trade is a win, a loss, breakeven or
// still running. It is the single place that interprets the relationship
// between entry, stop-loss and take-profit for a given direction; nothing
// else in the codebase re-derives it.
package outcome

import "math"

// Direction is the side of a position.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Status is the lifecycle state of a trade.
type Status string

const (
	InProgress Status = "in_progress"
	Completed  Status = "completed"
)

// Outcome is the resolved result of a trade.
type Outcome string

const (
	Win       Outcome = "Win"
	Loss      Outcome = "Loss"
	Breakeven Outcome = "Breakeven"
	Running   Outcome = "In Progress"
)

// Inputs are the trade fields the resolver looks at. LivePrice is an
// optional externally fetched market price; nil means unavailable.
type Inputs struct {
	Entry       float64
	StopLoss    float64
	TakeProfits []float64
	Direction   Direction
	Status      Status
	LivePrice   *float64
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Resolve returns one of the four outcomes. It never panics: malformed
// numeric input (NaN, Inf) degrades to Breakeven because the result feeds
// display paths that always need a renderable value.
//
// With a live price the question is "is this trade currently won or lost":
// any take-profit reached wins, stop-loss breached loses, take-profit is
// checked first so Win takes priority when both would match. Without a live
// price the same direction-aware comparison runs against the entry price,
// answering "was this trade a structural win or loss by design" - the path
// used when finalizing without a market-data round trip.
func Resolve(in Inputs) Outcome {
	if !finite(in.Entry) {
		return Breakeven
	}

	if in.LivePrice != nil && finite(*in.LivePrice) {
		return resolveLive(in, *in.LivePrice)
	}
	return resolveStructural(in)
}

func resolveLive(in Inputs, price float64) Outcome {
	for _, tp := range in.TakeProfits {
		if !finite(tp) {
			continue
		}
		if in.Direction == Short {
			if price <= tp {
				return Win
			}
		} else if price >= tp {
			return Win
		}
	}

	if finite(in.StopLoss) {
		if in.Direction == Short {
			if price >= in.StopLoss {
				return Loss
			}
		} else if price <= in.StopLoss {
			return Loss
		}
	}

	if in.Status == InProgress {
		return Running
	}
	return Breakeven
}

func resolveStructural(in Inputs) Outcome {
	for _, tp := range in.TakeProfits {
		if !finite(tp) {
			continue
		}
		if in.Direction == Short {
			if tp < in.Entry {
				return Win
			}
		} else if tp > in.Entry {
			return Win
		}
	}

	if finite(in.StopLoss) {
		if in.Direction == Short {
			if in.StopLoss > in.Entry {
				return Loss
			}
		} else if in.StopLoss < in.Entry {
			return Loss
		}
	}

	return Breakeven
}

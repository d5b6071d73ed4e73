package risk

import "fmt"

// Policy is the set of discipline limits a trade plan is checked against
// before it goes in the journal. Violating the policy does not block the
// save; the journal records what you actually did.
type Policy struct {
	MaxRiskPct  float64 // e.g. 0.02
	MinRR       float64 // e.g. 1.5
	MaxLeverage float64 // e.g. 20
}

// DefaultPolicy returns conservative limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPct:  0.02,
		MinRR:       1.5,
		MaxLeverage: 20,
	}
}

type Violation struct {
	Code string
	Msg  string
}

// Decision is the result of a pre-trade discipline check.
type Decision struct {
	Clean      bool
	Violations []Violation

	PlannedRisk  float64
	RiskOfEquity float64
	RR           float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Clean = false
}

// Evaluate checks a planned trade against the policy and the account
// equity. Zero equity skips the risk-of-equity check.
func Evaluate(p Policy, in Inputs, equity float64) Decision {
	d := Decision{Clean: true}

	if in.Entry == 0 || in.Stop == 0 {
		d.add("NO_STOP_OR_ENTRY", "entry and stop must be set")
		return d
	}

	d.PlannedRisk = PlannedRisk(in)
	d.RR = RR(in.Entry, in.Stop, in.TakeProfit)

	if equity > 0 {
		d.RiskOfEquity = RiskPct(d.PlannedRisk, equity)
		if d.RiskOfEquity > p.MaxRiskPct {
			d.add("RISK_TOO_HIGH",
				fmt.Sprintf("planned risk %.2f%% of equity exceeds max %.2f%%",
					100*d.RiskOfEquity, 100*p.MaxRiskPct))
		}
	}
	if p.MinRR > 0 && d.RR < p.MinRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", d.RR, p.MinRR))
	}
	if p.MaxLeverage > 0 && in.Leverage > p.MaxLeverage {
		d.add("LEVERAGE_TOO_HIGH",
			fmt.Sprintf("leverage %.0fx exceeds max %.0fx", in.Leverage, p.MaxLeverage))
	}

	return d
}

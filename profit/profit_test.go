package profit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradebook/outcome"
)

func TestCalculateMarginedNotional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
		want string
	}{
		{
			// 10% move x 10x leverage x 1000 notional - 100 margin
			name: "spec_example",
			in:   Inputs{Size: 1000, Leverage: 10, Entry: 100, Exit: 110, Crypto: true, Unit: USD},
			want: "1000.00",
		},
		{
			name: "losing_move",
			in:   Inputs{Size: 1000, Leverage: 10, Entry: 100, Exit: 95, Crypto: true, Unit: USD},
			want: "-600.00",
		},
		{
			name: "flat_exit_costs_margin",
			in:   Inputs{Size: 1000, Leverage: 10, Entry: 100, Exit: 100, Crypto: true, Unit: USD},
			want: "-100.00",
		},
		{
			name: "no_leverage",
			in:   Inputs{Size: 500, Leverage: 1, Entry: 200, Exit: 220, Crypto: true, Unit: USD},
			want: "-450.00",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Calculate(tt.in))
		})
	}
}

func TestCalculateLotModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Inputs
		want string
	}{
		{
			// 50 pips x 0.5 lots x $10/pip x 1x
			name: "half_lot_fifty_pips",
			in:   Inputs{Size: 0.5, Leverage: 1, Entry: 1.2000, Exit: 1.2050, Crypto: false, Unit: Lots},
			want: "250.00",
		},
		{
			name: "magnitude_is_unsigned",
			in:   Inputs{Size: 0.5, Leverage: 1, Entry: 1.2000, Exit: 1.1950, Crypto: false, Unit: Lots},
			want: "250.00",
		},
		{
			name: "leverage_scales",
			in:   Inputs{Size: 1, Leverage: 5, Entry: 1.1000, Exit: 1.1010, Crypto: false, Unit: Lots},
			want: "500.00",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Calculate(tt.in))
		})
	}
}

func TestCalculateFailSoft(t *testing.T) {
	t.Parallel()

	nan := math.NaN()

	tests := []struct {
		name string
		in   Inputs
	}{
		{"zero_entry", Inputs{Size: 1000, Leverage: 10, Entry: 0, Exit: 110, Crypto: true, Unit: USD}},
		{"nan_exit", Inputs{Size: 1000, Leverage: 10, Entry: 100, Exit: nan, Crypto: true, Unit: USD}},
		{"nan_size", Inputs{Size: nan, Leverage: 10, Entry: 100, Exit: 110, Crypto: true, Unit: USD}},
		{"zero_leverage", Inputs{Size: 1000, Leverage: 0, Entry: 100, Exit: 110, Crypto: true, Unit: USD}},
		{"nan_lot_entry", Inputs{Size: 1, Leverage: 1, Entry: nan, Exit: 1.2, Crypto: false, Unit: Lots}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got string
			assert.NotPanics(t, func() { got = Calculate(tt.in) })
			assert.Equal(t, "0.00", got)
		})
	}
}

func TestExitPrice(t *testing.T) {
	t.Parallel()

	long := outcome.Inputs{
		Entry:       100,
		StopLoss:    95,
		TakeProfits: []float64{90, 110, 120},
		Direction:   outcome.Long,
	}

	assert.Equal(t, 110.0, ExitPrice(outcome.Win, long), "first structurally winning TP")
	assert.Equal(t, 95.0, ExitPrice(outcome.Loss, long))
	assert.Equal(t, 100.0, ExitPrice(outcome.Breakeven, long))

	live := 104.0
	running := long
	running.LivePrice = &live
	assert.Equal(t, 104.0, ExitPrice(outcome.Running, running))

	short := outcome.Inputs{
		Entry:       100,
		StopLoss:    105,
		TakeProfits: []float64{110, 92},
		Direction:   outcome.Short,
	}
	assert.Equal(t, 92.0, ExitPrice(outcome.Win, short))
}

func TestSigned(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-250.00", Signed(outcome.Loss, "250.00"))
	assert.Equal(t, "-250.00", Signed(outcome.Loss, "-250.00"))
	assert.Equal(t, "250.00", Signed(outcome.Win, "250.00"))
	assert.Equal(t, "0.00", Signed(outcome.Loss, "0.00"))
}

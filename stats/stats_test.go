package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sierrabt/sim"
)

func trade(side sim.Side, net float64) sim.Trade {
	return sim.Trade{Side: side, NetPL: net}
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()

	s := Compute(nil, nil, 1)
	assert.Zero(t, s.TotalPL)
	assert.Zero(t, s.NumTrades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.ProfitFactor)
	assert.Zero(t, s.Sharpe)
	assert.Zero(t, s.MaxDrawdown)
}

func TestComputeWinRateAndProfitFactor(t *testing.T) {
	t.Parallel()

	trades := []sim.Trade{
		trade(sim.Long, 100),
		trade(sim.Long, -50),
		trade(sim.Short, 25),
		trade(sim.Short, -25),
	}
	s := Compute(trades, []float64{0, 100, 50, 75, 50}, 1)

	assert.Equal(t, 4, s.NumTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.Equal(t, 0.5, s.WinRate)
	assert.InDelta(t, 125.0/75.0, s.ProfitFactor, 1e-12)
	assert.Equal(t, 50.0, s.TotalPL)
}

func TestProfitFactorEdgeCases(t *testing.T) {
	t.Parallel()

	// Only winners: +inf.
	s := Compute([]sim.Trade{trade(sim.Long, 10)}, []float64{0, 10}, 1)
	assert.True(t, math.IsInf(s.ProfitFactor, 1))

	// No trades at all: 0.
	s = Compute(nil, []float64{0, 0}, 1)
	assert.Zero(t, s.ProfitFactor)

	// Only losers: 0.
	s = Compute([]sim.Trade{trade(sim.Long, -10)}, []float64{0, -10}, 1)
	assert.Zero(t, s.ProfitFactor)
}

func TestSharpe(t *testing.T) {
	t.Parallel()

	// Flat equity: sigma = 0 -> Sharpe 0.
	s := Compute(nil, []float64{5, 5, 5, 5}, 252)
	assert.Zero(t, s.Sharpe)

	// Too short.
	s = Compute(nil, []float64{5}, 252)
	assert.Zero(t, s.Sharpe)

	// Returns +1, -1 alternating: mean 0 -> Sharpe 0.
	s = Compute(nil, []float64{0, 1, 0, 1, 0}, 252)
	assert.Zero(t, s.Sharpe)

	// Known hand-computed case: equity 0,1,3 -> returns 1,2.
	// mean=1.5, population stdev=0.5, K=4 -> sharpe = 1.5/0.5*2 = 6.
	s = Compute(nil, []float64{0, 1, 3}, 4)
	assert.InDelta(t, 6.0, s.Sharpe, 1e-12)
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	// Peak 100, trough 40: dd = 60, pct = 60/100.
	s := Compute(nil, []float64{0, 100, 40, 80}, 1)
	assert.Equal(t, 60.0, s.MaxDrawdown)
	assert.InDelta(t, 0.6, s.MaxDrawdownPct, 1e-12)

	// Monotonic equity has no drawdown.
	s = Compute(nil, []float64{0, 10, 20, 30}, 1)
	assert.Zero(t, s.MaxDrawdown)
	assert.Zero(t, s.MaxDrawdownPct)

	// Peak below 1 dollar: denominator floors at 1.0.
	s = Compute(nil, []float64{0, 0.5, -0.5}, 1)
	assert.Equal(t, 1.0, s.MaxDrawdown)
	assert.InDelta(t, 1.0, s.MaxDrawdownPct, 1e-12)
}

func TestBarAnnualization(t *testing.T) {
	t.Parallel()

	// 252 sessions x 6.5 hours of 1h bars.
	assert.InDelta(t, 252*6.5, BarAnnualization(3600), 1e-9)
	assert.InDelta(t, 252*6.5*60, BarAnnualization(60), 1e-9)
}

func TestSummarizeSide(t *testing.T) {
	t.Parallel()

	trades := []sim.Trade{
		trade(sim.Long, 100),
		trade(sim.Long, -40),
		trade(sim.Short, -30),
		trade(sim.Short, 60),
		trade(sim.Short, 10),
	}

	long := SummarizeSide(trades, sim.Long)
	require.Equal(t, 2, long.NumTrades)
	assert.Equal(t, 1, long.Wins)
	assert.Equal(t, 60.0, long.NetPL)
	assert.Equal(t, 0.5, long.WinRate)
	assert.InDelta(t, 100.0/40.0, long.ProfitFactor, 1e-12)

	short := SummarizeSide(trades, sim.Short)
	require.Equal(t, 3, short.NumTrades)
	assert.Equal(t, 2, short.Wins)
	assert.Equal(t, 40.0, short.NetPL)
	assert.InDelta(t, 70.0/30.0, short.ProfitFactor, 1e-12)
}

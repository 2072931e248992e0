// Package stats computes risk and return statistics from a trade list
// and an equity curve.
package stats

import (
	"math"

	"github.com/rustyeddy/sierrabt/sim"
)

// Seconds of bar time in a futures trading year: 252 sessions of 6.5
// regular hours. Used to annualize bar-mode Sharpe ratios.
const tradingYearSeconds = 252 * 6.5 * 3600

// Summary is the full statistics block for one backtest run.
type Summary struct {
	TotalPL        float64
	NumTrades      int
	Wins           int
	Losses         int
	WinRate        float64
	ProfitFactor   float64
	Sharpe         float64
	MaxDrawdown    float64
	MaxDrawdownPct float64
}

// SideSummary is the trade-level statistics for one side of the book.
type SideSummary struct {
	NumTrades    int
	Wins         int
	NetPL        float64
	WinRate      float64
	ProfitFactor float64
}

// BarAnnualization returns the Sharpe annualization factor K for bars of
// the given interval: the estimated number of bars per trading year.
func BarAnnualization(intervalSeconds int64) float64 {
	return tradingYearSeconds / float64(intervalSeconds)
}

// Compute derives the summary from closed trades and the per-row equity
// curve. annualization is the factor K of §Sharpe: bars per trading year
// in bar mode, 1 for the unit-less per-step tick-mode Sharpe.
func Compute(trades []sim.Trade, equity []float64, annualization float64) Summary {
	s := Summary{NumTrades: len(trades)}

	if n := len(equity); n > 0 {
		s.TotalPL = equity[n-1]
	}

	var grossWin, grossLoss float64
	for _, t := range trades {
		if t.NetPL > 0 {
			s.Wins++
			grossWin += t.NetPL
		} else if t.NetPL < 0 {
			s.Losses++
			grossLoss += -t.NetPL
		}
	}
	if s.NumTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.NumTrades)
	}
	s.ProfitFactor = profitFactor(grossWin, grossLoss)
	s.Sharpe = sharpe(equity, annualization)
	s.MaxDrawdown, s.MaxDrawdownPct = maxDrawdown(equity)
	return s
}

// SummarizeSide computes trade-level stats for long-only or short-only
// subsets of the trade list.
func SummarizeSide(trades []sim.Trade, side sim.Side) SideSummary {
	var s SideSummary
	var grossWin, grossLoss float64
	for _, t := range trades {
		if t.Side != side {
			continue
		}
		s.NumTrades++
		s.NetPL += t.NetPL
		if t.NetPL > 0 {
			s.Wins++
			grossWin += t.NetPL
		} else if t.NetPL < 0 {
			grossLoss += -t.NetPL
		}
	}
	if s.NumTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.NumTrades)
	}
	s.ProfitFactor = profitFactor(grossWin, grossLoss)
	return s
}

func profitFactor(grossWin, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossWin > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossWin / grossLoss
}

// sharpe is mean/stdev of the first differences of the equity curve,
// scaled by sqrt(annualization). Population stdev; 0 when the series is
// too short or flat.
func sharpe(equity []float64, annualization float64) float64 {
	if len(equity) < 2 {
		return 0
	}
	n := len(equity) - 1
	returns := make([]float64, n)
	for i := 1; i < len(equity); i++ {
		returns[i-1] = equity[i] - equity[i-1]
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(n)

	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(annualization)
}

// maxDrawdown returns the deepest peak-to-trough fall in dollars and as
// a fraction of the peak. The denominator floor of 1.0 keeps the
// fraction finite when the running peak sits near zero.
func maxDrawdown(equity []float64) (dd, pct float64) {
	var peak, peakAtMax float64
	first := true
	for _, e := range equity {
		if first || e > peak {
			peak = e
			first = false
		}
		if d := peak - e; d > dd {
			dd = d
			peakAtMax = peak
		}
	}
	if dd > 0 {
		pct = dd / math.Max(math.Abs(peakAtMax), 1.0)
	}
	return dd, pct
}

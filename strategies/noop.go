package strategies

import "github.com/rustyeddy/sierrabt/backtest"

// Noop stays flat on every bar. Baseline: zero trades, zero P/L.
func Noop() backtest.OnBars {
	return func(bars backtest.BarSnapshot) ([]int, error) {
		return make([]int, bars.NumBars), nil
	}
}

// NoopTicks stays flat on every tick.
func NoopTicks() backtest.OnTicks {
	return func(ticks backtest.TickSnapshot) ([]int, error) {
		return make([]int, ticks.NumTicks), nil
	}
}

// OpenOnce goes long at the first bar and holds; the engine closes the
// position at end of data.
func OpenOnce() backtest.OnBars {
	return func(bars backtest.BarSnapshot) ([]int, error) {
		signals := make([]int, bars.NumBars)
		for i := range signals {
			signals[i] = 1
		}
		return signals, nil
	}
}

// OpenOnceTicks goes long at the first tick and holds across batches.
func OpenOnceTicks() backtest.OnTicks {
	return func(ticks backtest.TickSnapshot) ([]int, error) {
		signals := make([]int, ticks.NumTicks)
		for i := range signals {
			signals[i] = 1
		}
		return signals, nil
	}
}

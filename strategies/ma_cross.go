package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/sierrabt/backtest"
	"github.com/rustyeddy/sierrabt/indicators"
)

// SMACross goes long while the fast SMA of bar closes is above the slow
// SMA and short while below. Flat during warmup.
func SMACross(fast, slow int) (backtest.OnBars, error) {
	if fast <= 0 || slow <= 0 || fast >= slow {
		return nil, fmt.Errorf("sma-cross: need 0 < fast < slow, got fast=%d slow=%d", fast, slow)
	}

	return func(bars backtest.BarSnapshot) ([]int, error) {
		fastMA, err := indicators.SMA(bars.Close, fast)
		if err != nil {
			return nil, err
		}
		slowMA, err := indicators.SMA(bars.Close, slow)
		if err != nil {
			return nil, err
		}

		signals := make([]int, bars.NumBars)
		for i := range signals {
			f, s := fastMA[i], slowMA[i]
			if math.IsNaN(f) || math.IsNaN(s) {
				continue
			}
			switch {
			case f > s:
				signals[i] = 1
			case f < s:
				signals[i] = -1
			}
		}
		return signals, nil
	}, nil
}

// EMACrossTicks is the streaming tick-mode counterpart: long while the
// fast EMA of trade prices is above the slow EMA. The EMAs live in the
// closure, so indicator state carries across batches and results do not
// depend on the batch size.
func EMACrossTicks(fast, slow int) (backtest.OnTicks, error) {
	if fast <= 0 || slow <= 0 || fast >= slow {
		return nil, fmt.Errorf("ema-cross: need 0 < fast < slow, got fast=%d slow=%d", fast, slow)
	}

	fastEMA := indicators.NewStreamingEMA(fast)
	slowEMA := indicators.NewStreamingEMA(slow)

	return func(ticks backtest.TickSnapshot) ([]int, error) {
		signals := make([]int, ticks.NumTicks)
		for i, p := range ticks.Price {
			fastEMA.Update(p)
			slowEMA.Update(p)
			if !fastEMA.Ready() || !slowEMA.Ready() {
				continue
			}
			switch f, s := fastEMA.Value(), slowEMA.Value(); {
			case f > s:
				signals[i] = 1
			case f < s:
				signals[i] = -1
			}
		}
		return signals, nil
	}, nil
}

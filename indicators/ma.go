// Package indicators provides the moving averages the reference
// strategies build their signals from.
package indicators

import (
	"fmt"
	"math"
)

// SMA returns the simple moving average series of values. Entries before
// the window fills are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("sma: period must be positive, got %d", period)
	}

	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// EMA returns the exponential moving average series of values, seeded
// with the SMA of the first period entries. Entries before the seed are
// NaN.
func EMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("ema: period must be positive, got %d", period)
	}

	out := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	var warmup float64
	ema := 0.0
	for i, v := range values {
		switch {
		case i < period-1:
			warmup += v
			out[i] = math.NaN()
		case i == period-1:
			warmup += v
			ema = warmup / float64(period)
			out[i] = ema
		default:
			ema = (v-ema)*multiplier + ema
			out[i] = ema
		}
	}
	return out, nil
}

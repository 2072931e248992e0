// Package market holds bar types and the tick-to-bar aggregation used by
// the backtest engine.
package market

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval reports an unrecognized interval label.
var ErrInvalidInterval = errors.New("invalid interval")

var intervalSeconds = map[string]int64{
	"1s":  1,
	"5s":  5,
	"10s": 10,
	"30s": 30,
	"1m":  60,
	"5m":  300,
	"15m": 900,
	"30m": 1800,
	"1h":  3600,
	"4h":  14400,
	"1d":  86400,
}

// IntervalSeconds maps a label like "5m" or "1h" to its length in seconds.
func IntervalSeconds(label string) (int64, error) {
	s, ok := intervalSeconds[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, label)
	}
	return s, nil
}

// Intervals lists the recognized labels, shortest first.
func Intervals() []string {
	return []string{"1s", "5s", "10s", "30s", "1m", "5m", "15m", "30m", "1h", "4h", "1d"}
}

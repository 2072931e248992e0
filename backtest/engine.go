// Package backtest drives strategies over SCID tick data and produces
// trade lists, equity curves and summary statistics.
//
// Two execution modes exist. Bar mode aggregates ticks to OHLCV bars and
// calls the strategy exactly once with the full series, which suits
// indicator strategies that vectorize over history. Tick mode feeds the
// strategy fixed-size batches of raw ticks; the batch size caps peak
// memory and never changes results, because position state persists
// across batches.
package backtest

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/sierrabt/market"
	"github.com/rustyeddy/sierrabt/scid"
	"github.com/rustyeddy/sierrabt/sim"
	"github.com/rustyeddy/sierrabt/stats"
)

var (
	// ErrSignalLength reports a strategy returning the wrong number of signals.
	ErrSignalLength = errors.New("signal length mismatch")
	// ErrInvalidSignal reports a signal outside {-1, 0, +1}.
	ErrInvalidSignal = errors.New("invalid signal")
	// ErrStrategy wraps an error or panic raised by the strategy callback.
	ErrStrategy = errors.New("strategy error")
)

// OnBars receives the full bar series once and returns one signal per
// bar, each in {-1, 0, +1}.
type OnBars func(BarSnapshot) ([]int, error)

// OnTicks receives one tick batch per call and returns one signal per
// tick, each in {-1, 0, +1}.
type OnTicks func(TickSnapshot) ([]int, error)

// DefaultBatchSize is the tick-mode batch length when none is given.
const DefaultBatchSize = 100_000

// Runner configures one backtest over a SCID file. Zero values fall
// back to ES-style defaults: point value 50, no commission, batch size
// 100k, close-at-end on.
type Runner struct {
	Path       string
	Interval   string  // bar mode only
	Commission float64 // dollars per round trip
	PointValue float64 // dollars per price point
	BatchSize  int     // tick mode only
	PriceScale float64 // 0.01 for integer x100 feeds, default 1.0
	NoCloseEnd bool    // set to leave the final position open
}

func (r *Runner) pointValue() float64 {
	if r.PointValue == 0 {
		return 50.0
	}
	return r.PointValue
}

func (r *Runner) batchSize() int {
	if r.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return r.BatchSize
}

func (r *Runner) open() (*scid.Reader, error) {
	var opts []scid.Option
	if r.PriceScale > 0 {
		opts = append(opts, scid.WithPriceScale(r.PriceScale))
	}
	return scid.Open(r.Path, opts...)
}

// RunBars executes bar mode: aggregate, one strategy call, drive the
// position machine over (bar time, bar close, signal).
func (r *Runner) RunBars(fn OnBars) (*Results, error) {
	intervalS, err := market.IntervalSeconds(r.Interval)
	if err != nil {
		return nil, err
	}

	rd, err := r.open()
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	bars, err := market.Aggregate(rd, r.Interval)
	if err != nil {
		return nil, err
	}
	snap := newBarSnapshot(bars)

	signals, err := callBars(fn, snap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Path, err)
	}
	if err := validateSignals(signals, snap.NumBars, "bar"); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Path, err)
	}

	tr := sim.NewTracker(r.pointValue(), r.Commission)
	for i, b := range bars {
		tr.Step(b.Start*1_000_000, b.Close, signals[i])
	}
	if n := len(bars); n > 0 && !r.NoCloseEnd {
		last := bars[n-1]
		tr.Finish(last.Start*1_000_000, last.Close)
	}

	return newResults(tr, stats.BarAnnualization(intervalS)), nil
}

// RunTicks executes tick mode: batched strategy calls over raw ticks,
// position state carried across batches.
func (r *Runner) RunTicks(fn OnTicks) (*Results, error) {
	rd, err := r.open()
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	tr := sim.NewTracker(r.pointValue(), r.Commission)
	batchSize := r.batchSize()
	batch := make([]scid.Tick, 0, batchSize)

	var lastUS int64
	var lastPrice float64
	seen := 0
	batchIdx := 0

	rd.Reset()
	for {
		batch = batch[:0]
		for len(batch) < batchSize {
			t, ok := rd.Next()
			if !ok {
				break
			}
			batch = append(batch, t)
		}
		if len(batch) == 0 {
			break
		}

		snap := newTickSnapshot(batch)
		signals, err := callTicks(fn, snap)
		if err != nil {
			return nil, fmt.Errorf("%s batch %d: %w", r.Path, batchIdx, err)
		}
		if err := validateSignals(signals, snap.NumTicks, "tick"); err != nil {
			return nil, fmt.Errorf("%s batch %d: %w", r.Path, batchIdx, err)
		}

		for i, t := range batch {
			tr.Step(t.TimeUS, t.Price, signals[i])
		}

		last := batch[len(batch)-1]
		lastUS, lastPrice = last.TimeUS, last.Price
		seen += len(batch)
		batchIdx++
	}

	if seen > 0 && !r.NoCloseEnd {
		tr.Finish(lastUS, lastPrice)
	}

	// Ticks are irregular in time, so no annualization: per-step Sharpe.
	return newResults(tr, 1.0), nil
}

// Run is the one-call bar-mode entry point.
func Run(path, interval string, fn OnBars, commission, pointValue float64) (*Results, error) {
	r := &Runner{Path: path, Interval: interval, Commission: commission, PointValue: pointValue}
	return r.RunBars(fn)
}

// RunTicks runs tick mode over path with the given batch size.
func RunTicks(path string, fn OnTicks, batchSize int, commission, pointValue float64) (*Results, error) {
	r := &Runner{Path: path, Commission: commission, PointValue: pointValue, BatchSize: batchSize}
	return r.RunTicks(fn)
}

func callBars(fn OnBars, snap BarSnapshot) (signals []int, err error) {
	defer func() {
		if p := recover(); p != nil {
			signals, err = nil, fmt.Errorf("%w: panic: %v", ErrStrategy, p)
		}
	}()
	signals, err = fn(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStrategy, err)
	}
	return signals, nil
}

func callTicks(fn OnTicks, snap TickSnapshot) (signals []int, err error) {
	defer func() {
		if p := recover(); p != nil {
			signals, err = nil, fmt.Errorf("%w: panic: %v", ErrStrategy, p)
		}
	}()
	signals, err = fn(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStrategy, err)
	}
	return signals, nil
}

func validateSignals(signals []int, want int, row string) error {
	if len(signals) != want {
		return fmt.Errorf("%w: got %d signals for %d %ss", ErrSignalLength, len(signals), want, row)
	}
	for i, s := range signals {
		if s < -1 || s > 1 {
			return fmt.Errorf("%w: %d at %s %d", ErrInvalidSignal, s, row, i)
		}
	}
	return nil
}

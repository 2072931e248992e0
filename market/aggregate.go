package market

import (
	"github.com/rustyeddy/sierrabt/scid"
)

// Aggregator folds a tick stream into bars at a fixed interval. Feed it
// ticks in timestamp order with Add, then call Finish to flush the last
// open bucket. Empty buckets (halts, weekends) produce no bars.
type Aggregator struct {
	intervalS  int64
	intervalUS int64
	cur        Bar
	open       bool
	bars       []Bar
}

// NewAggregator builds an aggregator for the given interval label.
func NewAggregator(label string) (*Aggregator, error) {
	s, err := IntervalSeconds(label)
	if err != nil {
		return nil, err
	}
	return &Aggregator{intervalS: s, intervalUS: s * 1_000_000}, nil
}

// Add folds one tick into the current bucket, emitting the previous bar
// when the tick crosses a bucket boundary.
func (a *Aggregator) Add(t scid.Tick) {
	start := t.TimeUS / a.intervalUS * a.intervalS
	if t.TimeUS < 0 && t.TimeUS%a.intervalUS != 0 {
		start -= a.intervalS // floor, not truncate, for pre-1970 data
	}

	if a.open && start == a.cur.Start {
		if t.Price > a.cur.High {
			a.cur.High = t.Price
		}
		if t.Price < a.cur.Low {
			a.cur.Low = t.Price
		}
		a.cur.Close = t.Price
		a.cur.Volume += t.Volume
		a.cur.BidVolume += t.BidVolume
		a.cur.AskVolume += t.AskVolume
		a.cur.Ticks++
		return
	}

	if a.open {
		a.bars = append(a.bars, a.cur)
	}
	a.cur = Bar{
		Start:     start,
		Open:      t.Price,
		High:      t.Price,
		Low:       t.Price,
		Close:     t.Price,
		Volume:    t.Volume,
		BidVolume: t.BidVolume,
		AskVolume: t.AskVolume,
		Ticks:     1,
	}
	a.open = true
}

// Finish flushes the last open bucket and returns all bars in order.
func (a *Aggregator) Finish() []Bar {
	if a.open {
		a.bars = append(a.bars, a.cur)
		a.open = false
	}
	return a.bars
}

// IntervalSecondsValue returns the aggregator's interval length.
func (a *Aggregator) IntervalSecondsValue() int64 { return a.intervalS }

// Aggregate folds every tick the reader yields, starting from the
// beginning of the file.
func Aggregate(r *scid.Reader, label string) ([]Bar, error) {
	agg, err := NewAggregator(label)
	if err != nil {
		return nil, err
	}
	r.Reset()
	for {
		t, ok := r.Next()
		if !ok {
			break
		}
		agg.Add(t)
	}
	return agg.Finish(), nil
}

package backtest

import (
	"github.com/rustyeddy/sierrabt/market"
	"github.com/rustyeddy/sierrabt/scid"
)

// BarSnapshot is the column view of an aggregated bar series handed to a
// bar strategy. All slices have length NumBars; index i refers to the
// same bar in every column. Time is the bucket start in UNIX seconds.
type BarSnapshot struct {
	Time      []float64
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
	BidVolume []float64
	AskVolume []float64
	NumBars   int
}

// Columns returns the snapshot as a key→array mapping for callers that
// marshal it across a language boundary.
func (s BarSnapshot) Columns() map[string][]float64 {
	return map[string][]float64{
		"time":       s.Time,
		"open":       s.Open,
		"high":       s.High,
		"low":        s.Low,
		"close":      s.Close,
		"volume":     s.Volume,
		"bid_volume": s.BidVolume,
		"ask_volume": s.AskVolume,
	}
}

// TickSnapshot is the column view of one tick batch. All slices have
// length NumTicks. Timestamp is UNIX seconds with microsecond fraction.
type TickSnapshot struct {
	Timestamp []float64
	Price     []float64
	Bid       []float64
	Ask       []float64
	Volume    []float64
	BidVolume []float64
	AskVolume []float64
	NumTicks  int
}

// Columns returns the snapshot as a key→array mapping for callers that
// marshal it across a language boundary.
func (s TickSnapshot) Columns() map[string][]float64 {
	return map[string][]float64{
		"timestamp":  s.Timestamp,
		"price":      s.Price,
		"bid":        s.Bid,
		"ask":        s.Ask,
		"volume":     s.Volume,
		"bid_volume": s.BidVolume,
		"ask_volume": s.AskVolume,
	}
}

func newBarSnapshot(bars []market.Bar) BarSnapshot {
	n := len(bars)
	s := BarSnapshot{
		Time:      make([]float64, n),
		Open:      make([]float64, n),
		High:      make([]float64, n),
		Low:       make([]float64, n),
		Close:     make([]float64, n),
		Volume:    make([]float64, n),
		BidVolume: make([]float64, n),
		AskVolume: make([]float64, n),
		NumBars:   n,
	}
	for i, b := range bars {
		s.Time[i] = float64(b.Start)
		s.Open[i] = b.Open
		s.High[i] = b.High
		s.Low[i] = b.Low
		s.Close[i] = b.Close
		s.Volume[i] = b.Volume
		s.BidVolume[i] = b.BidVolume
		s.AskVolume[i] = b.AskVolume
	}
	return s
}

func newTickSnapshot(ticks []scid.Tick) TickSnapshot {
	n := len(ticks)
	s := TickSnapshot{
		Timestamp: make([]float64, n),
		Price:     make([]float64, n),
		Bid:       make([]float64, n),
		Ask:       make([]float64, n),
		Volume:    make([]float64, n),
		BidVolume: make([]float64, n),
		AskVolume: make([]float64, n),
		NumTicks:  n,
	}
	for i, t := range ticks {
		s.Timestamp[i] = t.Time()
		s.Price[i] = t.Price
		s.Bid[i] = t.Bid
		s.Ask[i] = t.Ask
		s.Volume[i] = t.Volume
		s.BidVolume[i] = t.BidVolume
		s.AskVolume[i] = t.AskVolume
	}
	return s
}

// LoadTicks maps the file and returns the column snapshot of every tick.
func LoadTicks(path string, opts ...scid.Option) (TickSnapshot, error) {
	r, err := scid.Open(path, opts...)
	if err != nil {
		return TickSnapshot{}, err
	}
	defer r.Close()

	ticks := make([]scid.Tick, 0, r.Count())
	for {
		t, ok := r.Next()
		if !ok {
			break
		}
		ticks = append(ticks, t)
	}
	return newTickSnapshot(ticks), nil
}

// LoadBars maps the file, aggregates to the given interval and returns
// the column snapshot of every bar.
func LoadBars(path, interval string, opts ...scid.Option) (BarSnapshot, error) {
	r, err := scid.Open(path, opts...)
	if err != nil {
		return BarSnapshot{}, err
	}
	defer r.Close()

	bars, err := market.Aggregate(r, interval)
	if err != nil {
		return BarSnapshot{}, err
	}
	return newBarSnapshot(bars), nil
}

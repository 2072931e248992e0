package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pointValue = 50.0
	commission = 2.50
)

func drive(tr *Tracker, closes []float64, signals []int) {
	for i := range closes {
		tr.Step(int64(i+1)*60_000_000, closes[i], signals[i])
	}
}

func TestTrackerFlatOnly(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, commission)
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 100
	}
	drive(tr, closes, make([]int, 10))
	tr.Finish(10*60_000_000, 100)

	assert.Empty(t, tr.Trades())
	assert.Equal(t, 0.0, tr.Realized())
	require.Len(t, tr.Equity(), 10)
	for i, e := range tr.Equity() {
		assert.Equal(t, 0.0, e, "equity row %d", i)
	}
}

func TestTrackerSingleLong(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, commission)
	drive(tr, []float64{100, 101, 102, 103, 104}, []int{1, 1, 1, 1, 0})
	tr.Finish(5*60_000_000, 104)

	trades := tr.Trades()
	require.Len(t, trades, 1)

	tradeRec := trades[0]
	assert.Equal(t, Long, tradeRec.Side)
	assert.Equal(t, 100.0, tradeRec.EntryPrice)
	assert.Equal(t, 104.0, tradeRec.ExitPrice)
	assert.Equal(t, 200.0, tradeRec.GrossPL)
	assert.Equal(t, 197.50, tradeRec.NetPL)
	assert.Equal(t, time.UnixMicro(60_000_000).UTC(), tradeRec.EntryTime)
	assert.Equal(t, time.UnixMicro(5*60_000_000).UTC(), tradeRec.ExitTime)

	assert.Equal(t, 197.50, tr.Realized())
	assert.Equal(t, tr.Realized(), tr.Equity()[len(tr.Equity())-1])
}

func TestTrackerFlip(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, commission)
	drive(tr, []float64{100, 105, 95}, []int{1, -1, 0})
	tr.Finish(3*60_000_000, 95)

	trades := tr.Trades()
	require.Len(t, trades, 2)

	long := trades[0]
	assert.Equal(t, Long, long.Side)
	assert.Equal(t, 100.0, long.EntryPrice)
	assert.Equal(t, 105.0, long.ExitPrice)
	assert.Equal(t, 250.0, long.GrossPL)
	assert.Equal(t, 247.50, long.NetPL)

	short := trades[1]
	assert.Equal(t, Short, short.Side)
	assert.Equal(t, 105.0, short.EntryPrice)
	assert.Equal(t, 95.0, short.ExitPrice)
	assert.Equal(t, 500.0, short.GrossPL)
	assert.Equal(t, 497.50, short.NetPL)

	// The flip opens the short at the same row/price the long closed.
	assert.Equal(t, long.ExitTime, short.EntryTime)
	assert.Equal(t, long.ExitPrice, short.EntryPrice)

	assert.Equal(t, 745.0, tr.Realized())
}

func TestTrackerEndOfDataClosure(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, commission)
	drive(tr, []float64{100, 110}, []int{1, 1})
	tr.Finish(2*60_000_000, 110)

	trades := tr.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, 497.50, trades[0].NetPL)
	assert.Equal(t, 497.50, tr.Equity()[1])
}

func TestTrackerShortRoundTrip(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, 0)
	drive(tr, []float64{100, 90}, []int{-1, 0})
	tr.Finish(2*60_000_000, 90)

	trades := tr.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, Short, trades[0].Side)
	assert.Equal(t, 500.0, trades[0].GrossPL) // (100-90) x 50
}

func TestTrackerEquityMarksOpenPosition(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, 0)
	drive(tr, []float64{100, 102, 101}, []int{1, 1, 1})

	eq := tr.Equity()
	require.Len(t, eq, 3)
	assert.Equal(t, 0.0, eq[0])   // entered at 100, marked at 100
	assert.Equal(t, 100.0, eq[1]) // +2 points x 50
	assert.Equal(t, 50.0, eq[2])  // +1 point x 50
}

func TestTrackerRepeatedSignalIsNoOp(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, 0)
	drive(tr, []float64{100, 101, 102, 103}, []int{1, 1, 1, 0})
	tr.Finish(4*60_000_000, 103)

	// Repeated +1 must not re-enter or stack positions.
	require.Len(t, tr.Trades(), 1)
	assert.Equal(t, 100.0, tr.Trades()[0].EntryPrice)
}

func TestTrackerDoubleFlip(t *testing.T) {
	t.Parallel()

	tr := NewTracker(pointValue, 0)
	drive(tr, []float64{100, 110, 105}, []int{1, -1, 1})
	tr.Finish(3*60_000_000, 105)

	trades := tr.Trades()
	require.Len(t, trades, 3)
	assert.Equal(t, Long, trades[0].Side)
	assert.Equal(t, Short, trades[1].Side)
	assert.Equal(t, Long, trades[2].Side)

	// long 100->110 = +500, short 110->105 = +250, long 105->105 = 0
	assert.Equal(t, 750.0, tr.Realized())
	assert.Equal(t, tr.Realized(), tr.Equity()[2])
}

func TestTrackerSideStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "long", Long.String())
	assert.Equal(t, "short", Short.String())
	assert.Equal(t, "flat", Flat.String())
}

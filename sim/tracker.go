package sim

import (
	"time"

	"github.com/rustyeddy/sierrabt/pkg/id"
)

// Tracker walks the Flat/Long/Short state machine over a stream of
// (timestamp, price, signal) rows. It records one Trade per closed leg
// and one equity sample per input row: realized net P/L plus the
// mark-to-market of any open leg at that row's price.
//
// Transitions, keyed on (state, signal):
//
//	Flat  +1 open long    -1 open short   0 no-op
//	Long  +1 no-op        -1 flip short   0 close
//	Short +1 flip long    -1 no-op        0 close
//
// A flip closes the old leg and opens the new one at the same row, so it
// yields exactly one completed trade.
type Tracker struct {
	pointValue float64
	commission float64

	side       Side
	entryPrice float64
	entryUS    int64

	realized float64
	trades   []Trade
	equity   []float64
}

// NewTracker returns a flat tracker. pointValue is the dollar multiplier
// per price point; commission is charged once per round trip.
func NewTracker(pointValue, commission float64) *Tracker {
	return &Tracker{pointValue: pointValue, commission: commission}
}

// Side returns the current position side.
func (tr *Tracker) Side() Side { return tr.side }

// Step applies one row. The signal must already be validated to
// {-1, 0, +1} by the caller.
func (tr *Tracker) Step(tsUS int64, price float64, signal int) {
	switch {
	case signal == 0:
		if tr.side != Flat {
			tr.close(tsUS, price)
		}
	case signal > 0:
		if tr.side == Short {
			tr.close(tsUS, price)
		}
		if tr.side == Flat {
			tr.open(Long, tsUS, price)
		}
	default:
		if tr.side == Long {
			tr.close(tsUS, price)
		}
		if tr.side == Flat {
			tr.open(Short, tsUS, price)
		}
	}

	tr.equity = append(tr.equity, tr.realized+tr.openGross(price))
}

// Finish closes any open leg at the final row's timestamp and price and
// settles the last equity sample so it equals the realized total.
func (tr *Tracker) Finish(tsUS int64, price float64) {
	if tr.side != Flat {
		tr.close(tsUS, price)
	}
	if n := len(tr.equity); n > 0 {
		tr.equity[n-1] = tr.realized
	}
}

// Trades returns the closed round trips in close order.
func (tr *Tracker) Trades() []Trade { return tr.trades }

// Equity returns one cumulative net P/L sample per Step call.
func (tr *Tracker) Equity() []float64 { return tr.equity }

// Realized returns the net P/L of all closed trades.
func (tr *Tracker) Realized() float64 { return tr.realized }

func (tr *Tracker) open(side Side, tsUS int64, price float64) {
	tr.side = side
	tr.entryPrice = price
	tr.entryUS = tsUS
}

func (tr *Tracker) close(tsUS int64, price float64) {
	gross := (price - tr.entryPrice) * tr.pointValue
	if tr.side == Short {
		gross = -gross
	}
	net := gross - tr.commission

	tr.trades = append(tr.trades, Trade{
		ID:         id.New(),
		Side:       tr.side,
		EntryTime:  time.UnixMicro(tr.entryUS).UTC(),
		ExitTime:   time.UnixMicro(tsUS).UTC(),
		EntryPrice: tr.entryPrice,
		ExitPrice:  price,
		GrossPL:    gross,
		Commission: tr.commission,
		NetPL:      net,
	})
	tr.realized += net
	tr.side = Flat
	tr.entryPrice = 0
	tr.entryUS = 0
}

func (tr *Tracker) openGross(price float64) float64 {
	switch tr.side {
	case Long:
		return (price - tr.entryPrice) * tr.pointValue
	case Short:
		return (tr.entryPrice - price) * tr.pointValue
	default:
		return 0
	}
}

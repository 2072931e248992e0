package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/sierrabt/sim"
)

// WriteTradesCSV exports closed trades to path with a header row.
func WriteTradesCSV(path string, trades []sim.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"trade_id", "side", "entry_time", "exit_time", "entry_price", "exit_price", "gross_pl", "commission", "net_pl"}); err != nil {
		return err
	}

	for _, t := range trades {
		if err := w.Write([]string{
			t.ID,
			t.Side.String(),
			t.EntryTime.Format(time.RFC3339Nano),
			t.ExitTime.Format(time.RFC3339Nano),
			ff(t.EntryPrice),
			ff(t.ExitPrice),
			ff(t.GrossPL),
			ff(t.Commission),
			ff(t.NetPL),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteEquityCSV exports the equity curve to path, one row per input row.
func WriteEquityCSV(path string, equity []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"idx", "equity"}); err != nil {
		return err
	}
	for i, v := range equity {
		if err := w.Write([]string{strconv.Itoa(i), ff(v)}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

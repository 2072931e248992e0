package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/sierrabt/sim"
	"github.com/rustyeddy/sierrabt/stats"
)

// Results is the immutable outcome of one backtest run.
type Results struct {
	TotalPL        float64
	NumTrades      int
	WinRate        float64
	ProfitFactor   float64
	Sharpe         float64
	MaxDrawdown    float64
	MaxDrawdownPct float64

	EquityCurve []float64
	Trades      []sim.Trade

	Long  stats.SideSummary
	Short stats.SideSummary

	Start time.Time
	End   time.Time
}

func newResults(tr *sim.Tracker, annualization float64) *Results {
	trades := tr.Trades()
	equity := tr.Equity()
	s := stats.Compute(trades, equity, annualization)

	res := &Results{
		TotalPL:        s.TotalPL,
		NumTrades:      s.NumTrades,
		WinRate:        s.WinRate,
		ProfitFactor:   s.ProfitFactor,
		Sharpe:         s.Sharpe,
		MaxDrawdown:    s.MaxDrawdown,
		MaxDrawdownPct: s.MaxDrawdownPct,
		EquityCurve:    equity,
		Trades:         trades,
		Long:           stats.SummarizeSide(trades, sim.Long),
		Short:          stats.SummarizeSide(trades, sim.Short),
	}
	if len(trades) > 0 {
		res.Start = trades[0].EntryTime
		res.End = trades[len(trades)-1].ExitTime
	}
	return res
}

// Print writes a formatted report block.
func (r *Results) Print(w io.Writer) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	if !r.Start.IsZero() {
		fmt.Fprintf(w, "First Entry:   %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "Last Exit:     %s\n", r.End.Format(time.RFC3339))
	}

	fmt.Fprintf(w, "Trades:        %d\n", r.NumTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate*100)
	fmt.Fprintf(w, "Profit Factor: %.2f\n", r.ProfitFactor)
	fmt.Fprintf(w, "Sharpe:        %.2f\n", r.Sharpe)
	fmt.Fprintf(w, "Max Drawdown:  $%.2f (%.2f%%)\n", r.MaxDrawdown, r.MaxDrawdownPct*100)
	fmt.Fprintf(w, "Total P/L:     $%.2f\n", r.TotalPL)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Per Side")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Long:  %d trades, %.2f%% win, $%.2f\n", r.Long.NumTrades, r.Long.WinRate*100, r.Long.NetPL)
	fmt.Fprintf(w, "Short: %d trades, %.2f%% win, $%.2f\n", r.Short.NumTrades, r.Short.WinRate*100, r.Short.NetPL)
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sierrabt/backtest"
	"github.com/rustyeddy/sierrabt/config"
	"github.com/rustyeddy/sierrabt/strategies"
)

var ticksCmd = &cobra.Command{
	Use:   "ticks",
	Short: "Run a tick-mode backtest over a SCID file",
	Long: `Ticks replays the raw tick stream through the strategy in fixed-size
batches. Position state persists across batches, so the batch size is a
memory knob only and never changes results.

Example:
  sierrabt ticks --data es.scid --strategy ema-cross --fast 200 --slow 800`,
	RunE: runTicks,
}

var (
	tkDataPath   string
	tkStrategy   string
	tkFast       int
	tkSlow       int
	tkBatchSize  int
	tkCommission float64
	tkPointValue float64
	tkPriceScale float64
	tkNoCloseEnd bool
	tkDBPath     string
	tkTradesCSV  string
	tkEquityCSV  string
)

func init() {
	rootCmd.AddCommand(ticksCmd)

	ticksCmd.Flags().StringVarP(&tkDataPath, "data", "d", "", "path to SCID tick file (required)")
	ticksCmd.Flags().StringVarP(&tkStrategy, "strategy", "s", "noop", "tick strategy name (noop, open-once, ema-cross)")
	ticksCmd.Flags().IntVar(&tkFast, "fast", 200, "ema-cross: fast period in ticks")
	ticksCmd.Flags().IntVar(&tkSlow, "slow", 800, "ema-cross: slow period in ticks")
	ticksCmd.Flags().IntVarP(&tkBatchSize, "batch-size", "b", backtest.DefaultBatchSize, "ticks per strategy call")
	ticksCmd.Flags().Float64Var(&tkCommission, "commission", 0.0, "commission per round trip")
	ticksCmd.Flags().Float64Var(&tkPointValue, "point-value", 50.0, "dollars per price point (ES=50, NQ=20)")
	ticksCmd.Flags().Float64Var(&tkPriceScale, "price-scale", 0, "price scale for integer x100 feeds (0.01)")
	ticksCmd.Flags().BoolVar(&tkNoCloseEnd, "no-close-end", false, "leave the final position open at end of data")
	ticksCmd.Flags().StringVar(&tkDBPath, "db", "", "SQLite journal path (empty = no journal)")
	ticksCmd.Flags().StringVar(&tkTradesCSV, "trades-csv", "", "export trades CSV to this path")
	ticksCmd.Flags().StringVar(&tkEquityCSV, "equity-csv", "", "export equity CSV to this path")

	ticksCmd.MarkFlagRequired("data")
}

func runTicks(cmd *cobra.Command, args []string) error {
	strat, err := strategies.TickByName(tkStrategy, tkFast, tkSlow)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Path:       tkDataPath,
		Commission: tkCommission,
		PointValue: tkPointValue,
		BatchSize:  tkBatchSize,
		PriceScale: tkPriceScale,
		NoCloseEnd: tkNoCloseEnd,
	}

	slog.Info("running tick backtest",
		"data", tkDataPath, "strategy", tkStrategy, "batch_size", runner.BatchSize)

	res, err := runner.RunTicks(strat)
	if err != nil {
		return fmt.Errorf("tick backtest: %w", err)
	}

	res.Print(os.Stdout)

	cfg := config.Default()
	cfg.Data.Path = tkDataPath
	cfg.Run.Commission = tkCommission
	cfg.Run.PointValue = tkPointValue
	cfg.Run.Interval = ""
	cfg.Strategy.Name = tkStrategy
	cfg.Journal.DBPath = tkDBPath
	cfg.Journal.TradesCSV = tkTradesCSV
	cfg.Journal.EquityCSV = tkEquityCSV
	return persistResults(cfg, "ticks", res)
}

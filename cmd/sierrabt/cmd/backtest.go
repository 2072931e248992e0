package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sierrabt/backtest"
	"github.com/rustyeddy/sierrabt/config"
	"github.com/rustyeddy/sierrabt/journal"
	"github.com/rustyeddy/sierrabt/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a bar-mode backtest over a SCID file",
	Long: `Backtest aggregates ticks to OHLCV bars at the chosen interval,
calls the strategy once with the full series and replays the returned
signals through the position machine.

Example:
  sierrabt backtest --data es.scid --interval 5m --strategy sma-cross --fast 20 --slow 50`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btDataPath   string
	btInterval   string
	btStrategy   string
	btFast       int
	btSlow       int
	btCommission float64
	btPointValue float64
	btPriceScale float64
	btNoCloseEnd bool
	btDBPath     string
	btTradesCSV  string
	btEquityCSV  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "YAML/JSON config file (flags override)")
	backtestCmd.Flags().StringVarP(&btDataPath, "data", "d", "", "path to SCID tick file (required unless set in config)")
	backtestCmd.Flags().StringVarP(&btInterval, "interval", "i", "5m", "bar interval (1s 5s 10s 30s 1m 5m 15m 30m 1h 4h 1d)")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "noop", "strategy name (noop, open-once, sma-cross)")
	backtestCmd.Flags().IntVar(&btFast, "fast", 20, "sma-cross: fast period")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 50, "sma-cross: slow period")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", 0.0, "commission per round trip")
	backtestCmd.Flags().Float64Var(&btPointValue, "point-value", 50.0, "dollars per price point (ES=50, NQ=20)")
	backtestCmd.Flags().Float64Var(&btPriceScale, "price-scale", 0, "price scale for integer x100 feeds (0.01)")
	backtestCmd.Flags().BoolVar(&btNoCloseEnd, "no-close-end", false, "leave the final position open at end of data")
	backtestCmd.Flags().StringVar(&btDBPath, "db", "", "SQLite journal path (empty = no journal)")
	backtestCmd.Flags().StringVar(&btTradesCSV, "trades-csv", "", "export trades CSV to this path")
	backtestCmd.Flags().StringVar(&btEquityCSV, "equity-csv", "", "export equity CSV to this path")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := mergedConfig(cmd, "bars")
	if err != nil {
		return err
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.Fast, cfg.Strategy.Slow)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Path:       cfg.Data.Path,
		Interval:   cfg.Run.Interval,
		Commission: cfg.Run.Commission,
		PointValue: cfg.Run.PointValue,
		PriceScale: cfg.Data.PriceScale,
		NoCloseEnd: cfg.Run.NoCloseEnd,
	}

	slog.Info("running bar backtest",
		"data", cfg.Data.Path, "interval", cfg.Run.Interval, "strategy", cfg.Strategy.Name)

	res, err := runner.RunBars(strat)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	res.Print(os.Stdout)

	return persistResults(cfg, "bars", res)
}

// mergedConfig builds the effective config: file (if given), then flag
// values on top.
func mergedConfig(cmd *cobra.Command, mode string) (*config.Config, error) {
	cfg := config.Default()
	if btConfigPath != "" {
		loaded, err := config.Load(btConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Run.Mode = mode
	if btDataPath != "" {
		cfg.Data.Path = btDataPath
	}
	if cmd.Flags().Changed("interval") || cfg.Run.Interval == "" {
		cfg.Run.Interval = btInterval
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy.Name = btStrategy
	}
	if cmd.Flags().Changed("fast") {
		cfg.Strategy.Fast = btFast
	}
	if cmd.Flags().Changed("slow") {
		cfg.Strategy.Slow = btSlow
	}
	if cmd.Flags().Changed("commission") {
		cfg.Run.Commission = btCommission
	}
	if cmd.Flags().Changed("point-value") {
		cfg.Run.PointValue = btPointValue
	}
	if cmd.Flags().Changed("price-scale") {
		cfg.Data.PriceScale = btPriceScale
	}
	if btNoCloseEnd {
		cfg.Run.NoCloseEnd = true
	}
	if btDBPath != "" {
		cfg.Journal.DBPath = btDBPath
	}
	if btTradesCSV != "" {
		cfg.Journal.TradesCSV = btTradesCSV
	}
	if btEquityCSV != "" {
		cfg.Journal.EquityCSV = btEquityCSV
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persistResults(cfg *config.Config, mode string, res *backtest.Results) error {
	if cfg.Journal.DBPath != "" {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()

		runID, err := j.RecordRun(journal.Run{
			Dataset:    cfg.Data.Path,
			Mode:       mode,
			Interval:   cfg.Run.Interval,
			Strategy:   cfg.Strategy.Name,
			Commission: cfg.Run.Commission,
			PointValue: cfg.Run.PointValue,
		}, res)
		if err != nil {
			return err
		}
		slog.Info("run journaled", "run_id", runID, "db", cfg.Journal.DBPath)
	}

	if cfg.Journal.TradesCSV != "" {
		if err := journal.WriteTradesCSV(cfg.Journal.TradesCSV, res.Trades); err != nil {
			return fmt.Errorf("write trades csv: %w", err)
		}
	}
	if cfg.Journal.EquityCSV != "" {
		if err := journal.WriteEquityCSV(cfg.Journal.EquityCSV, res.EquityCurve); err != nil {
			return fmt.Errorf("write equity csv: %w", err)
		}
	}
	return nil
}

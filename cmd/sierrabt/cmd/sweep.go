package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/sierrabt/backtest"
	"github.com/rustyeddy/sierrabt/strategies"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <file.scid> [file.scid...]",
	Short: "Run one bar strategy over several SCID files concurrently",
	Long: `Sweep runs the same strategy over each dataset. Runs share no state,
so they execute concurrently; results print sorted by file path.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSweep,
}

var (
	swInterval   string
	swStrategy   string
	swFast       int
	swSlow       int
	swCommission float64
	swPointValue float64
	swWorkers    int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&swInterval, "interval", "i", "5m", "bar interval label")
	sweepCmd.Flags().StringVarP(&swStrategy, "strategy", "s", "sma-cross", "strategy name")
	sweepCmd.Flags().IntVar(&swFast, "fast", 20, "sma-cross: fast period")
	sweepCmd.Flags().IntVar(&swSlow, "slow", 50, "sma-cross: slow period")
	sweepCmd.Flags().Float64Var(&swCommission, "commission", 0.0, "commission per round trip")
	sweepCmd.Flags().Float64Var(&swPointValue, "point-value", 50.0, "dollars per price point")
	sweepCmd.Flags().IntVar(&swWorkers, "workers", 4, "max concurrent runs")
}

func runSweep(cmd *cobra.Command, args []string) error {
	type sweepResult struct {
		path string
		res  *backtest.Results
	}

	var mu sync.Mutex
	results := make(map[string]sweepResult, len(args))

	var g errgroup.Group
	g.SetLimit(swWorkers)

	for _, path := range args {
		path := path
		g.Go(func() error {
			// Each run owns its file map, strategy state and tracker.
			strat, err := strategies.ByName(swStrategy, swFast, swSlow)
			if err != nil {
				return err
			}
			runner := &backtest.Runner{
				Path:       path,
				Interval:   swInterval,
				Commission: swCommission,
				PointValue: swPointValue,
			}
			res, err := runner.RunBars(strat)
			if err != nil {
				return fmt.Errorf("sweep %s: %w", path, err)
			}

			mu.Lock()
			results[path] = sweepResult{path: path, res: res}
			mu.Unlock()

			slog.Info("sweep run done", "data", path, "trades", res.NumTrades, "total_pl", res.TotalPL)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	paths := make([]string, len(args))
	copy(paths, args)
	sort.Strings(paths)

	for _, p := range paths {
		r, ok := results[p]
		if !ok {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p)
		r.res.Print(os.Stdout)
	}
	return nil
}

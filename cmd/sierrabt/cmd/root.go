package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/sierrabt/internal/logx"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sierrabt",
	Short: "Backtest futures strategies against Sierra Chart SCID tick data",
	Long: `Sierrabt backtests futures trading strategies against tick-level
market data recorded in the Sierra Chart SCID binary format.

It provides tools for:
  - Bar-mode backtests over aggregated OHLCV series
  - Tick-mode backtests over batched raw ticks
  - Inspecting SCID files and exporting aggregated bars
  - Journaling runs, trades and equity curves to SQLite/CSV
  - Sweeping one strategy across many datasets concurrently`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logx.SetDefault(logx.NewLogger(logLevel, logFormat))
	},
	SilenceUsage: true,
}

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}

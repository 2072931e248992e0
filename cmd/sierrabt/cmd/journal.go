package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sierrabt/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect journaled backtest runs",
}

var journalDB string

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.NewSQLite(journalDB)
		if err != nil {
			return err
		}
		defer j.Close()

		runs, err := j.ListRuns(20)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %-10s %-9s trades=%-4d pl=%.2f\n",
				r.RunID, r.Created.Format(time.RFC3339), r.Strategy, r.Mode, r.Trades, r.TotalPL)
		}
		return nil
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its trades",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.NewSQLite(journalDB)
		if err != nil {
			return err
		}
		defer j.Close()

		run, err := j.GetRun(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Run:       %s (%s)\n", run.RunID, run.Created.Format(time.RFC3339))
		fmt.Printf("Dataset:   %s\n", run.Dataset)
		fmt.Printf("Strategy:  %s mode=%s interval=%s\n", run.Strategy, run.Mode, run.Interval)
		fmt.Printf("Trades:    %d (%d wins / %d losses)\n", run.Trades, run.Wins, run.Losses)
		fmt.Printf("Total P/L: %.2f  sharpe=%.2f  maxdd=%.2f\n", run.TotalPL, run.Sharpe, run.MaxDrawdown)

		trades, err := j.ListTrades(run.RunID)
		if err != nil {
			return err
		}
		for _, t := range trades {
			fmt.Printf("  %-5s %s -> %s  %.2f -> %.2f  net=%.2f\n",
				t.Side,
				t.EntryTime.Format(time.RFC3339), t.ExitTime.Format(time.RFC3339),
				t.EntryPrice, t.ExitPrice, t.NetPL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.PersistentFlags().StringVar(&journalDB, "db", "./sierrabt.sqlite", "SQLite journal path")
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
}

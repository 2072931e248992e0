package journal

import (
	"fmt"
	"math"
	"time"

	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/sierrabt/backtest"
	"github.com/rustyeddy/sierrabt/pkg/id"
)

// SQLite stores runs, trades and equity curves in one database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (j *SQLite) Close() error { return j.db.Close() }

// RecordRun inserts a run with its trades and equity curve in one
// transaction and returns the generated run ID.
func (j *SQLite) RecordRun(run Run, res *backtest.Results) (string, error) {
	if run.RunID == "" {
		run.RunID = id.New()
	}
	if run.Created.IsZero() {
		run.Created = time.Now().UTC()
	}

	run.Trades = res.NumTrades
	run.TotalPL = res.TotalPL
	run.WinRate = res.WinRate
	run.ProfitFactor = capPF(res.ProfitFactor)
	run.Sharpe = res.Sharpe
	run.MaxDrawdown = res.MaxDrawdown
	run.MaxDrawdownPct = res.MaxDrawdownPct
	run.Wins = 0
	run.Losses = 0
	for _, t := range res.Trades {
		if t.NetPL > 0 {
			run.Wins++
		} else if t.NetPL < 0 {
			run.Losses++
		}
	}

	tx, err := j.db.Begin()
	if err != nil {
		return "", fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created_at, dataset, mode, interval, strategy,
		 commission, point_value, trades, wins, losses,
		 total_pl, win_rate, profit_factor, sharpe, max_drawdown, max_drawdown_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created.Format(time.RFC3339), run.Dataset, run.Mode, run.Interval, run.Strategy,
		run.Commission, run.PointValue, run.Trades, run.Wins, run.Losses,
		run.TotalPL, run.WinRate, run.ProfitFactor, run.Sharpe, run.MaxDrawdown, run.MaxDrawdownPct,
	)
	if err != nil {
		return "", fmt.Errorf("journal insert run: %w", err)
	}

	tradeStmt, err := tx.Prepare(`
		INSERT INTO trades
		(trade_id, run_id, side, entry_time, exit_time, entry_price, exit_price, gross_pl, commission, net_pl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("journal prepare trades: %w", err)
	}
	defer tradeStmt.Close()

	for _, t := range res.Trades {
		_, err := tradeStmt.Exec(
			t.ID, run.RunID, t.Side.String(),
			t.EntryTime.Format(time.RFC3339Nano), t.ExitTime.Format(time.RFC3339Nano),
			t.EntryPrice, t.ExitPrice, t.GrossPL, t.Commission, t.NetPL,
		)
		if err != nil {
			return "", fmt.Errorf("journal insert trade %s: %w", t.ID, err)
		}
	}

	eqStmt, err := tx.Prepare(`INSERT INTO equity (run_id, idx, value) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("journal prepare equity: %w", err)
	}
	defer eqStmt.Close()

	for i, v := range res.EquityCurve {
		if _, err := eqStmt.Exec(run.RunID, i, v); err != nil {
			return "", fmt.Errorf("journal insert equity row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("journal commit: %w", err)
	}
	return run.RunID, nil
}

func capPF(pf float64) float64 {
	if math.IsInf(pf, 1) || pf > ProfitFactorCap {
		return ProfitFactorCap
	}
	return pf
}

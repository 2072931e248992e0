package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created_at, dataset, mode, COALESCE(interval, ''), strategy,
		       commission, point_value, trades, wins, losses,
		       total_pl, win_rate, profit_factor, sharpe, max_drawdown, max_drawdown_pct
		FROM runs
		WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first.
func (j *SQLite) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(`
		SELECT run_id, created_at, dataset, mode, COALESCE(interval, ''), strategy,
		       commission, point_value, trades, wins, losses,
		       total_pl, win_rate, profit_factor, sharpe, max_drawdown, max_drawdown_pct
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// ListTrades returns the trades of one run in close order.
func (j *SQLite) ListTrades(runID string) ([]TradeRow, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, side, entry_time, exit_time, entry_price, exit_price, gross_pl, commission, net_pl
		FROM trades
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRow
	for rows.Next() {
		var t TradeRow
		var entry, exit string
		if err := rows.Scan(
			&t.TradeID, &t.RunID, &t.Side, &entry, &exit,
			&t.EntryPrice, &t.ExitPrice, &t.GrossPL, &t.Commission, &t.NetPL,
		); err != nil {
			return nil, err
		}
		if t.EntryTime, err = time.Parse(time.RFC3339Nano, entry); err != nil {
			return nil, fmt.Errorf("trade %s: bad entry_time %q: %w", t.TradeID, entry, err)
		}
		if t.ExitTime, err = time.Parse(time.RFC3339Nano, exit); err != nil {
			return nil, fmt.Errorf("trade %s: bad exit_time %q: %w", t.TradeID, exit, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Equity returns the equity curve of one run in row order.
func (j *SQLite) Equity(runID string) ([]float64, error) {
	rows, err := j.db.Query(`SELECT value FROM equity WHERE run_id = ? ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var created string
	err := row.Scan(
		&run.RunID, &created, &run.Dataset, &run.Mode, &run.Interval, &run.Strategy,
		&run.Commission, &run.PointValue, &run.Trades, &run.Wins, &run.Losses,
		&run.TotalPL, &run.WinRate, &run.ProfitFactor, &run.Sharpe,
		&run.MaxDrawdown, &run.MaxDrawdownPct,
	)
	if err != nil {
		return Run{}, err
	}
	if run.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return Run{}, fmt.Errorf("run %s: bad created_at %q: %w", run.RunID, created, err)
	}
	return run, nil
}

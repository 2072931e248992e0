package journal

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  run_id     TEXT PRIMARY KEY,             -- ULID
  created_at TEXT NOT NULL,                -- ISO8601 UTC

  dataset  TEXT NOT NULL,                  -- SCID file path
  mode     TEXT NOT NULL,                  -- "bars" or "ticks"
  interval TEXT,                           -- bar interval label, empty in tick mode
  strategy TEXT NOT NULL,

  commission  REAL NOT NULL,
  point_value REAL NOT NULL,

  trades INTEGER NOT NULL,
  wins   INTEGER NOT NULL,
  losses INTEGER NOT NULL,

  total_pl        REAL NOT NULL,
  win_rate        REAL NOT NULL,
  profit_factor   REAL NOT NULL,
  sharpe          REAL NOT NULL,
  max_drawdown    REAL NOT NULL,
  max_drawdown_pct REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy, dataset);

CREATE TABLE IF NOT EXISTS trades (
  trade_id TEXT PRIMARY KEY,               -- ULID
  run_id   TEXT NOT NULL,

  side        TEXT NOT NULL,               -- "long" or "short"
  entry_time  TEXT NOT NULL,
  exit_time   TEXT NOT NULL,
  entry_price REAL NOT NULL,
  exit_price  REAL NOT NULL,
  gross_pl    REAL NOT NULL,
  commission  REAL NOT NULL,
  net_pl      REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run_id ON trades(run_id);

CREATE TABLE IF NOT EXISTS equity (
  run_id TEXT NOT NULL,
  idx    INTEGER NOT NULL,                 -- row index within the run
  value  REAL NOT NULL,
  PRIMARY KEY (run_id, idx)
);
`

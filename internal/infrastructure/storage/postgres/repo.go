package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"volrank/internal/application/port"
	"volrank/internal/domain"
)

// Repo stores scans in Postgres through the pgx stdlib driver.
type Repo struct {
	db *sql.DB
}

// New opens the pool and creates the tables if they are missing.
func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS scans (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  min_quote_volume DOUBLE PRECISION NOT NULL,
  symbol_count INTEGER NOT NULL,
  line TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(ts_ms);

CREATE TABLE IF NOT EXISTS scan_entries (
  scan_id BIGINT NOT NULL REFERENCES scans(id),
  rank_no INTEGER NOT NULL,
  symbol TEXT NOT NULL,
  quote_volume DOUBLE PRECISION NOT NULL,
  PRIMARY KEY (scan_id, rank_no)
);
CREATE INDEX IF NOT EXISTS idx_scan_entries_symbol ON scan_entries(symbol);
`)
	return err
}

func (r *Repo) SaveScan(ctx context.Context, scan *domain.ScanResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var scanID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO scans(ts_ms, min_quote_volume, symbol_count, line) VALUES($1, $2, $3, $4) RETURNING id`,
		scan.TakenAt.UnixMilli(), scan.MinQuoteVolume, len(scan.Tickers), scan.Line,
	).Scan(&scanID)
	if err != nil {
		return err
	}

	for i, t := range scan.Tickers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_entries(scan_id, rank_no, symbol, quote_volume) VALUES($1, $2, $3, $4)`,
			scanID, i+1, t.Symbol, t.QuoteVolume,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

var _ port.ScanRepository = (*Repo)(nil)

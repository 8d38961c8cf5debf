package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"volrank/internal/application/port"
	"volrank/internal/domain"
)

// Repo stores scans in a local SQLite file.
type Repo struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and migrates it.
func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  min_quote_volume REAL NOT NULL,
  symbol_count INTEGER NOT NULL,
  line TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(ts_ms);

CREATE TABLE IF NOT EXISTS scan_entries (
  scan_id INTEGER NOT NULL REFERENCES scans(id),
  rank_no INTEGER NOT NULL,
  symbol TEXT NOT NULL,
  quote_volume REAL NOT NULL,
  PRIMARY KEY (scan_id, rank_no)
);
CREATE INDEX IF NOT EXISTS idx_scan_entries_symbol ON scan_entries(symbol);
`)
	return err
}

// SaveScan stores the scan header and its ranked entries in one transaction.
func (r *Repo) SaveScan(ctx context.Context, scan *domain.ScanResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := scan.TakenAt.UnixMilli()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO scans(ts_ms, min_quote_volume, symbol_count, line, created_at)
		VALUES(?, ?, ?, ?, ?)
	`, ts, scan.MinQuoteVolume, len(scan.Tickers), scan.Line, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scan_entries(scan_id, rank_no, symbol, quote_volume) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range scan.Tickers {
		if _, err := stmt.ExecContext(ctx, scanID, i+1, t.Symbol, t.QuoteVolume); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LatestScan returns the most recent scan, or nil when none was saved.
func (r *Repo) LatestScan(ctx context.Context) (*domain.ScanResult, error) {
	var (
		id    int64
		ts    int64
		scan  domain.ScanResult
		count int
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, ts_ms, min_quote_volume, symbol_count, line FROM scans ORDER BY id DESC LIMIT 1`).
		Scan(&id, &ts, &scan.MinQuoteVolume, &count, &scan.Line)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	scan.TakenAt = time.UnixMilli(ts)

	rows, err := r.db.QueryContext(ctx, `SELECT symbol, quote_volume FROM scan_entries WHERE scan_id=? ORDER BY rank_no`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scan.Tickers = make([]domain.Ticker, 0, count)
	for rows.Next() {
		var t domain.Ticker
		if err := rows.Scan(&t.Symbol, &t.QuoteVolume); err != nil {
			return nil, err
		}
		scan.Tickers = append(scan.Tickers, t)
	}
	return &scan, rows.Err()
}

var _ port.ScanRepository = (*Repo)(nil)

package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"StockScreener/internal/model"
)

// SQLiteRecorder persists scan runs and first-seen flags to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logrus.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id     TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			symbols    INTEGER,
			hits       INTEGER,
			new_hits   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS scan_hits (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			scan_type TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			flag_key  TEXT NOT NULL,
			value     REAL,
			is_new    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_run ON scan_hits(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_symbol ON scan_hits(symbol)`,

		`CREATE TABLE IF NOT EXISTS flag_history (
			flag_key   TEXT PRIMARY KEY,
			first_seen INTEGER NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan stores the run header and every hit in one transaction.
func (r *SQLiteRecorder) RecordScan(report *model.ScanReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hits := report.Hits()
	fresh := 0
	for _, h := range hits {
		if h.IsNew {
			fresh++
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO scan_runs
		(run_id, started_at, symbols, hits, new_hits)
		VALUES (?,?,?,?,?)`,
		report.RunID, report.StartedAt.Unix(), report.Symbols, len(hits), fresh,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO scan_hits
		(run_id, scan_type, symbol, flag_key, value, is_new)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare hits: %w", err)
	}
	defer stmt.Close()

	for _, h := range hits {
		if _, err := stmt.Exec(report.RunID, string(h.Scan), h.Symbol, h.Key, h.Value, h.IsNew); err != nil {
			return fmt.Errorf("insert hit %s: %w", h.Key, err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := r.db.Query(`SELECT run_id, started_at, symbols, hits, new_hits
		FROM scan_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var ts int64
		if err := rows.Scan(&s.RunID, &ts, &s.Symbols, &s.Hits, &s.NewHits); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

// FirstSeen returns when key was first flagged.
func (r *SQLiteRecorder) FirstSeen(key string) (time.Time, bool, error) {
	var ts int64
	err := r.db.QueryRow(`SELECT first_seen FROM flag_history WHERE flag_key = ?`, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query flag %s: %w", key, err)
	}
	return time.Unix(ts, 0), true, nil
}

// MarkSeen records the first sighting of key. Later calls keep the original time.
func (r *SQLiteRecorder) MarkSeen(key string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR IGNORE INTO flag_history (flag_key, first_seen) VALUES (?,?)`, key, at.Unix())
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

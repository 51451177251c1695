// Package store provides SQLite persistence for Vigil: analyzed
// clusters, detected signals, watchlist alerts, and run records.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/vigil/internal/cluster"
	"github.com/abelbrown/vigil/internal/signal"
	"github.com/abelbrown/vigil/internal/watchlist"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Run records one pipeline execution.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	ArticleCount int
	ClusterCount int
	SignalCount  int
	AlertCount   int
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clusters (
		cluster_id TEXT PRIMARY KEY,
		primary_title TEXT NOT NULL,
		category TEXT NOT NULL,
		article_count INTEGER NOT NULL,
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS signals (
		signal_id TEXT PRIMARY KEY,
		signal_type TEXT NOT NULL,
		confidence REAL NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts (
		dedupe_key TEXT PRIMARY KEY,
		sentinel_id TEXT NOT NULL,
		cluster_id TEXT NOT NULL,
		alert_level TEXT NOT NULL,
		risk_score REAL NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		article_count INTEGER NOT NULL,
		cluster_count INTEGER NOT NULL,
		signal_count INTEGER NOT NULL,
		alert_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_signals_type ON signals(signal_type);
	CREATE INDEX IF NOT EXISTS idx_signals_expires ON signals(expires_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_sentinel ON alerts(sentinel_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_level ON alerts(alert_level);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveClusters upserts clusters keyed by cluster_id. Re-analyzing the
// same stories refreshes the stored payload rather than duplicating it.
func (s *Store) SaveClusters(clusters []cluster.Cluster, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(clusters) == 0 {
		return nil
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO clusters (cluster_id, primary_title, category, article_count, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cluster_id) DO UPDATE SET
			primary_title = excluded.primary_title,
			category = excluded.category,
			article_count = excluded.article_count,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range clusters {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal cluster %s: %w", c.ID, err)
		}
		if _, err := stmt.Exec(c.ID, c.PrimaryTitle, c.Category, c.ArticleCount, string(payload), now); err != nil {
			return fmt.Errorf("save cluster %s: %w", c.ID, err)
		}
	}
	return nil
}

// SaveSignals stores signals, returning the count of new rows inserted.
// A signal re-detected within its cooldown keeps the same signal_id and
// is silently ignored.
func (s *Store) SaveSignals(signals []signal.Signal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(signals) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO signals (signal_id, signal_type, confidence, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, sig := range signals {
		payload, err := json.Marshal(sig)
		if err != nil {
			return newCount, fmt.Errorf("marshal signal %s: %w", sig.ID, err)
		}
		result, err := stmt.Exec(sig.ID, string(sig.Type), sig.Confidence, string(payload), sig.CreatedAt, sig.ExpiresAt)
		if err != nil {
			return newCount, fmt.Errorf("save signal %s: %w", sig.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}
	return newCount, nil
}

// SaveAlerts stores watchlist alerts, returning the count of new rows.
// The dedupe key embeds an hour bucket, so the same sentinel/cluster
// pair raises at most one alert per hour.
func (s *Store) SaveAlerts(alerts []watchlist.Alert) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(alerts) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO alerts (dedupe_key, sentinel_id, cluster_id, alert_level, risk_score, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, a := range alerts {
		payload, err := json.Marshal(a)
		if err != nil {
			return newCount, fmt.Errorf("marshal alert %s: %w", a.DedupeKey, err)
		}
		result, err := stmt.Exec(a.DedupeKey, a.SentinelID, a.ClusterID, string(a.Level), a.RiskScore, string(payload), a.CreatedAt, a.ExpiresAt)
		if err != nil {
			return newCount, fmt.Errorf("save alert %s: %w", a.DedupeKey, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}
	return newCount, nil
}

// SaveRun records a completed pipeline run.
func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, started_at, finished_at, article_count, cluster_count, signal_count, alert_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.ArticleCount, run.ClusterCount, run.SignalCount, run.AlertCount)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// ActiveSignalIDs returns the IDs of signals whose cooldown has not
// expired as of now.
func (s *Store) ActiveSignalIDs(now time.Time) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT signal_id FROM signals WHERE expires_at > ?`, now)
	if err != nil {
		return nil, fmt.Errorf("query active signals: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// ActiveAlertKeys returns the dedupe keys of alerts whose cooldown has
// not expired as of now.
func (s *Store) ActiveAlertKeys(now time.Time) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT dedupe_key FROM alerts WHERE expires_at > ?`, now)
	if err != nil {
		return nil, fmt.Errorf("query active alerts: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = true
	}
	return keys, rows.Err()
}

// CountRows returns the row count of one of the store's tables. Used by
// status reporting.
func (s *Store) CountRows(table string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch table {
	case "clusters", "signals", "alerts", "runs":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Engine is the SQLite-backed memory store.
type Engine struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	log    *zap.Logger
}

// NewEngine opens or creates the SQLite database at the given path.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create memory directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to enable WAL", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set busy_timeout", zap.Error(err))
	}

	e := &Engine{db: db, dbPath: path, log: log}
	if err := e.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize memory schema: %w", err)
	}

	return e, nil
}

func (e *Engine) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		category    TEXT NOT NULL,
		content     TEXT NOT NULL,
		importance  REAL NOT NULL DEFAULT 0.5,
		metadata    TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);
	`
	if _, err := e.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Store persists one entry.
func (e *Engine) Store(entry Entry) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	meta := "{}"
	if entry.Metadata != nil {
		data, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		meta = string(data)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := e.db.Exec(
		`INSERT INTO entries (id, category, content, importance, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Category, entry.Content, entry.Importance, meta,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (e *Engine) Recent(limit int) ([]Entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	rows, err := e.db.Query(
		`SELECT id, category, content, importance, metadata, created_at
		 FROM entries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var entry Entry
		var meta, created string
		if err := rows.Scan(&entry.ID, &entry.Category, &entry.Content,
			&entry.Importance, &meta, &created); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if meta != "" {
			_ = json.Unmarshal([]byte(meta), &entry.Metadata)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			entry.CreatedAt = t
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Stats returns entry counts per category.
func (e *Engine) Stats() (map[string]int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rows, err := e.db.Query(`SELECT category, COUNT(*) FROM entries GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats[category] = count
	}
	return stats, rows.Err()
}

// Save checkpoints the WAL so all writes reach the main database file.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint memory store: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (e *Engine) Close() error {
	return e.db.Close()
}

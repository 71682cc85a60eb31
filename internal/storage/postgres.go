package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"khabar/internal/news"
)

// PostgresStore keeps the delivered-set in PostgreSQL. Used when several
// scheduled runners share one delivered-set; the external scheduler still
// has to serialize runs.
type PostgresStore struct {
	db       *sql.DB
	ttlHours int
}

// NewPostgresStore connects and prepares the schema.
func NewPostgresStore(dsn string, ttlHours int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ps := &PostgresStore{db: db, ttlHours: ttlHours}
	if err := ps.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sent_news (
		id SERIAL PRIMARY KEY,
		fingerprint VARCHAR(64) UNIQUE NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		category VARCHAR(50),
		source VARCHAR(100),
		sent_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_sent_news_fingerprint ON sent_news(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_sent_news_sent_at ON sent_news(sent_at);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// Load expires old records; the database itself is the source of truth, so
// nothing is pulled into memory.
func (ps *PostgresStore) Load() error {
	cutoff := time.Now().Add(-time.Duration(ps.ttlHours) * time.Hour)
	res, err := ps.db.Exec(`DELETE FROM sent_news WHERE sent_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup delivered-set: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		slog.Debug("expired delivered-set records removed", "count", rows)
	}
	return nil
}

// Save is a no-op: every MarkDelivered is already durable.
func (ps *PostgresStore) Save() error { return nil }

// IsDelivered reports whether the fingerprint was sent within the TTL
// window. Lookup errors are logged and treated as "not delivered" so a
// flaky database degrades to a possible duplicate rather than a lost run.
func (ps *PostgresStore) IsDelivered(fingerprint string) bool {
	cutoff := time.Now().Add(-time.Duration(ps.ttlHours) * time.Hour)

	var count int
	err := ps.db.QueryRow(
		`SELECT COUNT(*) FROM sent_news WHERE fingerprint = $1 AND sent_at > $2`,
		fingerprint, cutoff,
	).Scan(&count)
	if err != nil {
		slog.Warn("delivered-set lookup failed", "error", err)
		return false
	}
	return count > 0
}

// MarkDelivered records a confirmed send. ON CONFLICT keeps the call
// idempotent if two runs race despite the one-run-at-a-time contract.
func (ps *PostgresStore) MarkDelivered(it news.Item) error {
	query := `
		INSERT INTO sent_news (fingerprint, title, link, category, source, sent_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (fingerprint) DO UPDATE SET sent_at = NOW()
	`
	if _, err := ps.db.Exec(query, it.Fingerprint, it.Title, it.URL, it.Category, it.Source); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

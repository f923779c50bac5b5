// Package sqlite implements the store interfaces on top of a single embedded
// SQLite database file, using the pure-Go modernc.org/sqlite driver through
// database/sql. Schema setup runs through goose with embedded migrations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// timeLayout is the ISO-8601 layout used for every timestamp column. The
// legacy schema stores timestamps as TEXT; this layout sorts lexicographically
// in chronological order, so due-date comparisons and ordering run directly
// on the column.
const timeLayout = "2006-01-02T15:04:05"

// DBConfig holds SQLite database connection configuration.
type DBConfig struct {
	Path            string        // Path to the database file
	MaxOpenConns    int           // Maximum open connections (default: 4)
	ConnMaxIdleTime time.Duration // Connection max idle time (default: 1min)
}

// Open opens (creating if necessary) the database file, applies connection
// pragmas, runs migrations, and returns the connection pool. The caller owns
// the returned *sql.DB and is responsible for closing it.
func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 4
	}
	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 1 * time.Minute
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations using goose with embedded files.
func runMigrations(db *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// formatTime renders a timestamp in the TEXT column layout, normalized to UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime converts a nullable TEXT timestamp back into a *time.Time,
// rejecting values that do not match the expected layout rather than
// silently passing malformed rows through.
func parseTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(timeLayout, ns.String, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("malformed timestamp %q: %w", ns.String, err)
	}
	return &t, nil
}

package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"       // PostgreSQL driver
	_ "modernc.org/sqlite"      // Pure-Go SQLite driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
)

// NewPostgresConnection creates and returns a new PostgreSQL database connection.
// It also pings the database to ensure connectivity.
func NewPostgresConnection(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	if err = db.Ping(); err != nil {
		db.Close() // Close the connection if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewSQLiteConnection opens (or creates) a SQLite database at the given path.
// The pool is pinned to a single connection: SQLite allows one writer at a
// time, and an in-memory database exists per connection.
func NewSQLiteConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id    INTEGER NOT NULL,
		local_id   INTEGER NOT NULL,
		name       TEXT    NOT NULL,
		occurs_at  TEXT    NOT NULL,
		recurrence TEXT    NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_chat ON notifications (chat_id, local_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGSERIAL PRIMARY KEY,
		chat_id    BIGINT       NOT NULL,
		local_id   INTEGER      NOT NULL,
		name       VARCHAR(100) NOT NULL,
		occurs_at  VARCHAR(19)  NOT NULL,
		recurrence VARCHAR(16)  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_chat ON notifications (chat_id, local_id)`,
}

// Migrate bootstraps the notifications table for the configured driver.
func Migrate(db *sql.DB, driver string) error {
	var statements []string
	switch driver {
	case "sqlite":
		statements = sqliteSchema
	case "postgres":
		statements = postgresSchema
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

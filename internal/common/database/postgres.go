// internal/common/database/postgres.go
// PostgreSQL connection for the interaction, match and message stores

package database

import (
    "fmt"
    "time"

    "github.com/jmoiron/sqlx"
    _ "github.com/lib/pq" // PostgreSQL driver
)

// Pool sizing for the single API process
const (
    maxOpenConns    = 25
    maxIdleConns    = 5
    connMaxLifetime = 5 * time.Minute
)

// NewPostgresDBFromURL opens a pooled connection from a postgres:// URL and
// verifies it with a ping before returning it
func NewPostgresDBFromURL(databaseURL string) (*sqlx.DB, error) {
    db, err := sqlx.Open("postgres", databaseURL)
    if err != nil {
        return nil, fmt.Errorf("failed to open database: %w", err)
    }

    db.SetMaxOpenConns(maxOpenConns)
    db.SetMaxIdleConns(maxIdleConns)
    db.SetConnMaxLifetime(connMaxLifetime)

    if err := db.Ping(); err != nil {
        return nil, fmt.Errorf("failed to ping database: %w", err)
    }

    return db, nil
}

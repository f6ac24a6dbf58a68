// Package db is the SQL engine the statistics reporters aggregate over.
// The loaded dataset lives in a single trips table, normally in memory.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	if path != MemoryPath {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: sees its own empty database, so the
	// pool must never hold more than one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas. The table is rebuilt on every load,
// so durability is not needed.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA synchronous=OFF",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS trips (
		row_index INTEGER PRIMARY KEY,
		ride_id TEXT,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration_sec REAL NOT NULL,
		start_station TEXT NOT NULL,
		end_station TEXT NOT NULL,
		user_type TEXT,
		gender TEXT,
		birth_year INTEGER,
		month INTEGER NOT NULL,
		weekday INTEGER NOT NULL,
		hour INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trips_stations ON trips(start_station, end_station);
	CREATE INDEX IF NOT EXISTS idx_trips_end_station ON trips(end_station);
	CREATE INDEX IF NOT EXISTS idx_trips_user ON trips(user_type, gender);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

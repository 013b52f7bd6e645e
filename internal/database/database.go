// Package database sets up/opens the program database.
package database

import (
	"database/sql"
	"fmt"

	// Package sqlite3 provides interface to SQLite3 databases.
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbDriver = "sqlite3"

	// Applied per connection by the driver.
	dsnParams = "?_busy_timeout=5000&_journal_mode=WAL"
)

// Database holds the database instance backing the failure ledger.
type Database struct {
	DB *sql.DB
}

// InitDB opens (or creates) the database at path and ensures its tables exist.
func InitDB(path string) (_ *Database, err error) {
	db, err := sql.Open(dbDriver, path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	d := &Database{DB: db}

	if err = d.DB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database at path %q: %w", path, err)
	}

	if err = d.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return d, nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.DB.Close()
}

// initTables initializes the SQL tables.
func (d *Database) initTables() error {
	tx, err := d.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initFailedJobsTable(tx); err != nil {
		return err
	}

	return tx.Commit()
}

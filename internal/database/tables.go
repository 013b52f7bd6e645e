package database

import (
	"database/sql"
	"fmt"
)

// initFailedJobsTable initializes the failure ledger table.
func initFailedJobsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS failed_jobs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT NOT NULL,
        mode TEXT NOT NULL CHECK(mode IN ('video-audio', 'audio', 'video-only')),
        output_directory TEXT NOT NULL,
        playlist INTEGER NOT NULL DEFAULT 0,
        reason TEXT,
        attempts INTEGER NOT NULL DEFAULT 1,
        failed_at TEXT NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        UNIQUE(url, mode, output_directory)
    );
    CREATE INDEX IF NOT EXISTS idx_failed_jobs_url ON failed_jobs(url);
    CREATE INDEX IF NOT EXISTS idx_failed_jobs_failed_at ON failed_jobs(failed_at);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create failed_jobs table: %w", err)
	}
	return nil
}

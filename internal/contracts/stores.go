// Package contracts defines interfaces that decouple the application layer from storage implementations.
package contracts

import (
	"context"

	"mediadl/internal/models"
)

// LedgerStore persists failed jobs.
type LedgerStore interface {
	// RecordFailure inserts a failed job, or updates the reason and attempt count of an
	// existing entry for the same URL, mode and output directory.
	RecordFailure(ctx context.Context, job *models.Job, reason string) (*models.FailedJob, error)

	GetFailure(ctx context.Context, id int64) (*models.FailedJob, error)
	ListFailures(ctx context.Context) ([]*models.FailedJob, error)
	RemoveFailure(ctx context.Context, id int64) error
	ClearFailures(ctx context.Context) (int64, error)
}

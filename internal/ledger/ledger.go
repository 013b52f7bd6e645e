// Package ledger tracks failed downloads and resubmits them on request.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"mediadl/internal/contracts"
	"mediadl/internal/domain/consts"
	"mediadl/internal/models"
	"mediadl/internal/utils/logging"
)

// ErrAttemptsExhausted marks entries that reached the attempt cap.
var ErrAttemptsExhausted = errors.New("attempt limit reached")

// Ledger is the failure ledger service.
type Ledger struct {
	store       contracts.LedgerStore
	maxAttempts int
}

// New returns a ledger over store. maxAttempts <= 0 selects the default cap.
func New(store contracts.LedgerStore, maxAttempts int) *Ledger {
	if maxAttempts <= 0 {
		maxAttempts = consts.DefaultMaxAttempts
	}
	return &Ledger{
		store:       store,
		maxAttempts: maxAttempts,
	}
}

// MaxAttempts returns the attempt cap.
func (l *Ledger) MaxAttempts() int {
	return l.maxAttempts
}

// Add records a failed job. Safe for concurrent use by workers.
func (l *Ledger) Add(ctx context.Context, job *models.Job, reason string) error {
	fj, err := l.store.RecordFailure(ctx, job, reason)
	if err != nil {
		return fmt.Errorf("failed to record failure for %q: %w", job.URL, err)
	}
	logging.D(1, "Recorded failure #%d for %q (attempt %d/%d)", fj.ID, fj.URL, fj.Attempts, l.maxAttempts)
	return nil
}

// List returns all ledger entries, oldest first.
func (l *Ledger) List(ctx context.Context) ([]*models.FailedJob, error) {
	return l.store.ListFailures(ctx)
}

// Remove deletes one entry.
func (l *Ledger) Remove(ctx context.Context, id int64) error {
	return l.store.RemoveFailure(ctx, id)
}

// Clear deletes all entries.
func (l *Ledger) Clear(ctx context.Context) (int64, error) {
	return l.store.ClearFailures(ctx)
}

// RetryReport summarises a retry pass.
type RetryReport struct {
	Succeeded []*models.FailedJob
	Failed    []*models.FailedJob
	Exhausted []*models.FailedJob
}

// Retry resubmits the entries with the given IDs through runner. Repeated IDs run once.
//
// The runner records repeated failures back into this ledger, which updates the existing
// entry in place. Successful entries are removed.
func (l *Ledger) Retry(ctx context.Context, runner contracts.JobRunner, ids ...int64) (*RetryReport, error) {
	var (
		entries = make([]*models.FailedJob, 0, len(ids))
		seen    = make(map[int64]struct{}, len(ids))
	)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		fj, err := l.store.GetFailure(ctx, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fj)
	}
	return l.retryEntries(ctx, runner, entries)
}

// RetryAll resubmits every entry through runner.
func (l *Ledger) RetryAll(ctx context.Context, runner contracts.JobRunner) (*RetryReport, error) {
	entries, err := l.store.ListFailures(ctx)
	if err != nil {
		return nil, err
	}
	return l.retryEntries(ctx, runner, entries)
}

// retryEntries runs the eligible entries as one batch.
func (l *Ledger) retryEntries(ctx context.Context, runner contracts.JobRunner, entries []*models.FailedJob) (*RetryReport, error) {
	report := new(RetryReport)

	var (
		jobs    = make([]*models.Job, 0, len(entries))
		byJobID = make(map[string]*models.FailedJob, len(entries))
	)
	for _, fj := range entries {
		if fj.Attempts >= l.maxAttempts {
			logging.W("Skipping %q: %v (%d/%d)", fj.URL, ErrAttemptsExhausted, fj.Attempts, l.maxAttempts)
			report.Exhausted = append(report.Exhausted, fj)
			continue
		}
		j := fj.ToJob()
		jobs = append(jobs, j)
		byJobID[j.ID] = fj
	}

	if len(jobs) == 0 {
		return report, nil
	}

	logging.I("Retrying %d failed download(s)...", len(jobs))
	var errs []error
	for _, res := range runner.Run(ctx, jobs) {
		fj := byJobID[res.Job.ID]
		if !res.Succeeded() {
			report.Failed = append(report.Failed, fj)
			continue
		}
		if err := l.store.RemoveFailure(ctx, fj.ID); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove ledger entry %d after success: %w", fj.ID, err))
			continue
		}
		report.Succeeded = append(report.Succeeded, fj)
	}

	// Refresh failed entries so callers see updated reasons
	for i, fj := range report.Failed {
		updated, err := l.store.GetFailure(ctx, fj.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		report.Failed[i] = updated
	}

	return report, errors.Join(errs...)
}

// Package repo implements the SQLite-backed stores.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"mediadl/internal/domain/consts"
	"mediadl/internal/models"
	"mediadl/internal/utils/logging"

	"github.com/Masterminds/squirrel"
	"github.com/araddon/dateparse"
)

// ErrFailureNotFound is returned when no ledger entry matches an ID.
var ErrFailureNotFound = errors.New("failed job not found")

// LedgerStore holds a pointer to the sql.DB.
type LedgerStore struct {
	DB *sql.DB

	// Guards writes from concurrent workers.
	mu sync.Mutex
}

// GetLedgerStore returns a ledger store instance with injected database.
func GetLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{
		DB: db,
	}
}

// RecordFailure inserts the job into the ledger, or updates the existing entry in place.
func (ls *LedgerStore) RecordFailure(ctx context.Context, job *models.Job, reason string) (fj *models.FailedJob, err error) {
	if job == nil {
		return nil, errors.New("job cannot be nil")
	}

	id, err := ls.upsertFailure(ctx, job, truncateReason(reason))
	if err != nil {
		return nil, err
	}

	logging.D(2, "Ledger entry %d recorded for URL %q", id, job.URL)
	return ls.GetFailure(ctx, id)
}

// GetFailure returns the ledger entry with the given ID.
func (ls *LedgerStore) GetFailure(ctx context.Context, id int64) (*models.FailedJob, error) {
	row := selectFailures().
		Where(squirrel.Eq{consts.QFailID: id}).
		RunWith(ls.DB).
		QueryRowContext(ctx)

	fj, err := scanFailure(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrFailureNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger entry %d: %w", id, err)
	}
	return fj, nil
}

// ListFailures returns all ledger entries, oldest first.
func (ls *LedgerStore) ListFailures(ctx context.Context) ([]*models.FailedJob, error) {
	rows, err := selectFailures().
		OrderBy(consts.QFailID + " ASC").
		RunWith(ls.DB).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var out []*models.FailedJob
	for rows.Next() {
		fj, err := scanFailure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		out = append(out, fj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating ledger rows: %w", err)
	}
	return out, nil
}

// RemoveFailure deletes the ledger entry with the given ID.
func (ls *LedgerStore) RemoveFailure(ctx context.Context, id int64) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	res, err := squirrel.
		Delete(consts.DBFailedJobs).
		Where(squirrel.Eq{consts.QFailID: id}).
		RunWith(ls.DB).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrFailureNotFound, id)
	}
	return nil
}

// ClearFailures deletes every ledger entry and returns how many were removed.
func (ls *LedgerStore) ClearFailures(ctx context.Context) (int64, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	res, err := squirrel.
		Delete(consts.DBFailedJobs).
		RunWith(ls.DB).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear ledger: %w", err)
	}
	return res.RowsAffected()
}

// ******************************** Private ********************************

// upsertFailure writes the failure inside a transaction and returns the entry ID.
func (ls *LedgerStore) upsertFailure(ctx context.Context, job *models.Job, reason string) (id int64, err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	tx, err := ls.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for job with URL %q: %v", job.URL, rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Error rolling back ledger entry for URL %q (original error: %v): %v", job.URL, err, rbErr)
			}
		}
	}()

	nowStr := time.Now().Format(consts.TimeFormatLedger)

	scanErr := squirrel.
		Select(consts.QFailID).
		From(consts.DBFailedJobs).
		Where(squirrel.Eq{
			consts.QFailURL:       job.URL,
			consts.QFailMode:      string(job.Mode),
			consts.QFailOutputDir: job.OutputDir,
		}).
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&id)

	switch {
	case errors.Is(scanErr, sql.ErrNoRows):
		res, insErr := squirrel.
			Insert(consts.DBFailedJobs).
			Columns(
				consts.QFailURL,
				consts.QFailMode,
				consts.QFailOutputDir,
				consts.QFailPlaylist,
				consts.QFailReason,
				consts.QFailAttempts,
				consts.QFailFailedAt,
			).
			Values(job.URL, string(job.Mode), job.OutputDir, job.Playlist, reason, 1, nowStr).
			RunWith(tx).
			ExecContext(ctx)
		if insErr != nil {
			return 0, fmt.Errorf("failed to insert ledger entry for %q: %w", job.URL, insErr)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to get ledger entry ID for %q: %w", job.URL, err)
		}

	case scanErr != nil:
		return 0, fmt.Errorf("failed to look up ledger entry for %q: %w", job.URL, scanErr)

	default:
		if _, err = squirrel.
			Update(consts.DBFailedJobs).
			Set(consts.QFailReason, reason).
			Set(consts.QFailAttempts, squirrel.Expr(consts.QFailAttempts+" + 1")).
			Set(consts.QFailFailedAt, nowStr).
			Set(consts.QFailPlaylist, job.Playlist).
			Where(squirrel.Eq{consts.QFailID: id}).
			RunWith(tx).
			ExecContext(ctx); err != nil {
			return 0, fmt.Errorf("failed to update ledger entry %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func selectFailures() squirrel.SelectBuilder {
	return squirrel.
		Select(
			consts.QFailID,
			consts.QFailURL,
			consts.QFailMode,
			consts.QFailOutputDir,
			consts.QFailPlaylist,
			consts.QFailReason,
			consts.QFailAttempts,
			consts.QFailFailedAt,
		).
		From(consts.DBFailedJobs)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanFailure scans one ledger row.
func scanFailure(r rowScanner) (*models.FailedJob, error) {
	var (
		fj       models.FailedJob
		mode     string
		reason   sql.NullString
		failedAt string
	)

	if err := r.Scan(
		&fj.ID,
		&fj.URL,
		&mode,
		&fj.OutputDir,
		&fj.Playlist,
		&reason,
		&fj.Attempts,
		&failedAt,
	); err != nil {
		return nil, err
	}

	fj.Mode = models.Mode(mode)
	fj.Reason = reason.String

	if t, err := dateparse.ParseLocal(failedAt); err != nil {
		logging.D(1, "Could not parse failure time %q for ledger entry %d: %v", failedAt, fj.ID, err)
	} else {
		fj.FailedAt = t
	}
	return &fj, nil
}

// truncateReason caps the stored failure reason length without splitting a rune.
func truncateReason(reason string) string {
	if len(reason) <= consts.MaxErrorLen {
		return reason
	}
	n := consts.MaxErrorLen
	for n > 0 && !utf8.RuneStart(reason[n]) {
		n--
	}
	return reason[:n]
}

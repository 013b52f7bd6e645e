package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"mediadl/internal/database"
	"mediadl/internal/downloads"
	"mediadl/internal/models"
	"mediadl/internal/repo"
	"mediadl/internal/state"
)

// scriptedExecutor fails URLs listed in failures and succeeds otherwise.
type scriptedExecutor struct {
	mu       sync.Mutex
	failures map[string]string
	runs     map[string]int
}

func (s *scriptedExecutor) Download(_ context.Context, job *models.Job, _ func(models.Progress)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil {
		s.runs = make(map[string]int)
	}
	s.runs[job.URL]++
	if reason, ok := s.failures[job.URL]; ok {
		return errors.New(reason)
	}
	return nil
}

func (s *scriptedExecutor) setFailure(url, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reason == "" {
		delete(s.failures, url)
		return
	}
	s.failures[url] = reason
}

func newTestLedger(t *testing.T, maxAttempts int) (*Ledger, *scriptedExecutor, *downloads.Runner) {
	t.Helper()

	d, err := database.InitDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	l := New(repo.GetLedgerStore(d.DB), maxAttempts)
	ex := &scriptedExecutor{failures: make(map[string]string)}
	return l, ex, downloads.NewRunner(state.NewThreadSetting(2), ex, l, nil)
}

func TestRetrySuccessRemovesEntry(t *testing.T) {
	ctx := context.Background()
	l, ex, runner := newTestLedger(t, 0)

	url := "https://example.com/watch?v=ok"
	ex.setFailure(url, "ERROR: HTTP Error 503")
	runner.Run(ctx, []*models.Job{models.NewJob(url, models.ModeAudio, "/tmp/music", false)})

	entries, err := l.List(ctx)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry after failure, got %d (%v)", len(entries), err)
	}

	ex.setFailure(url, "")
	report, err := l.Retry(ctx, runner, entries[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Succeeded) != 1 || len(report.Failed) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	entries, err = l.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected ledger empty after successful retry, got %d", len(entries))
	}
}

func TestRetryRunsRepeatedIDsOnce(t *testing.T) {
	ctx := context.Background()
	l, ex, runner := newTestLedger(t, 0)

	url := "https://example.com/watch?v=twice"
	ex.setFailure(url, "ERROR: HTTP Error 503")
	runner.Run(ctx, []*models.Job{models.NewJob(url, models.ModeAudio, "/tmp/music", false)})

	entries, err := l.List(ctx)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry after failure, got %d (%v)", len(entries), err)
	}

	ex.setFailure(url, "")
	id := entries[0].ID
	report, err := l.Retry(ctx, runner, id, id, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Succeeded) != 1 || len(report.Failed) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := ex.runs[url]; got != 2 {
		t.Fatalf("expected 1 initial run and 1 retry, got %d runs", got)
	}
}

func TestRetryFailureUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	l, ex, runner := newTestLedger(t, 0)

	url := "https://example.com/watch?v=bad"
	ex.setFailure(url, "ERROR: first reason")
	runner.Run(ctx, []*models.Job{models.NewJob(url, models.ModeVideoAudio, "/tmp/videos", false)})

	entries, _ := l.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	first := entries[0]

	ex.setFailure(url, "ERROR: second reason")
	report, err := l.RetryAll(ctx, runner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Failed) != 1 {
		t.Fatalf("expected one failed retry, got %+v", report)
	}

	got := report.Failed[0]
	if got.ID != first.ID || got.Attempts != 2 || got.Reason != "ERROR: second reason" {
		t.Fatalf("expected entry %d updated in place, got %+v", first.ID, got)
	}
	if got.URL != url || got.Mode != models.ModeVideoAudio || got.OutputDir != "/tmp/videos" {
		t.Fatalf("retry lost job fields: %+v", got)
	}

	entries, _ = l.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("retry must not duplicate entries, got %d", len(entries))
	}
}

func TestRetryHonoursAttemptCap(t *testing.T) {
	ctx := context.Background()
	l, ex, runner := newTestLedger(t, 2)

	url := "https://example.com/watch?v=cap"
	ex.setFailure(url, "ERROR: nope")
	runner.Run(ctx, []*models.Job{models.NewJob(url, models.ModeAudio, "/tmp", false)})

	if _, err := l.RetryAll(ctx, runner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := l.RetryAll(ctx, runner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Exhausted) != 1 || report.Exhausted[0].Attempts != 2 {
		t.Fatalf("expected entry reported exhausted at 2 attempts, got %+v", report)
	}
	if ex.runs[url] != 2 {
		t.Fatalf("exhausted entry must not be resubmitted, ran %d times", ex.runs[url])
	}
}

func TestRetrySelectedIDs(t *testing.T) {
	ctx := context.Background()
	l, ex, runner := newTestLedger(t, 0)

	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	jobs := make([]*models.Job, 0, len(urls))
	for _, u := range urls {
		ex.setFailure(u, "ERROR: x")
		jobs = append(jobs, models.NewJob(u, models.ModeAudio, "/tmp", false))
	}
	runner.Run(ctx, jobs)

	entries, _ := l.List(ctx)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for _, u := range urls {
		ex.setFailure(u, "")
	}
	report, err := l.Retry(ctx, runner, entries[0].ID, entries[2].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Succeeded) != 2 {
		t.Fatalf("expected 2 successes, got %+v", report)
	}

	left, _ := l.List(ctx)
	if len(left) != 1 || left[0].URL != urls[1] {
		t.Fatalf("expected only %q left, got %+v", urls[1], left)
	}

	if _, err := l.Retry(ctx, runner, 9999); !errors.Is(err, repo.ErrFailureNotFound) {
		t.Fatalf("expected ErrFailureNotFound, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t, 0)

	for _, u := range []string{"https://example.com/a", "https://example.com/b"} {
		if err := l.Add(ctx, models.NewJob(u, models.ModeAudio, "/tmp", false), "ERROR: x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	entries, _ := l.List(ctx)
	if err := l.Remove(ctx, entries[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := l.Clear(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 cleared, got %d (%v)", n, err)
	}
	if l.MaxAttempts() <= 0 {
		t.Fatalf("expected default attempt cap")
	}
}

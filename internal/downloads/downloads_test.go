package downloads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mediadl/internal/database"
	"mediadl/internal/ledger"
	"mediadl/internal/models"
	"mediadl/internal/repo"
	"mediadl/internal/state"
)

// fakeExecutor stands in for the extraction tool.
type fakeExecutor struct {
	hold     time.Duration
	failures map[string]string

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       []string
	gotProgress bool
}

func (f *fakeExecutor) Download(ctx context.Context, job *models.Job, onProgress func(models.Progress)) error {
	f.mu.Lock()
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.calls = append(f.calls, job.URL)
	f.gotProgress = f.gotProgress || onProgress != nil
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if onProgress != nil {
		onProgress(models.Progress{JobID: job.ID, Percent: 50})
		onProgress(models.Progress{JobID: job.ID, Percent: 100})
	}

	select {
	case <-time.After(f.hold):
	case <-ctx.Done():
		return ctx.Err()
	}

	if reason, ok := f.failures[job.URL]; ok {
		return errors.New(reason)
	}
	return nil
}

type fakeResolver struct {
	docs map[string]*models.PlaylistInfo
}

func (f *fakeResolver) ResolvePlaylist(_ context.Context, url string) (*models.PlaylistInfo, error) {
	info, ok := f.docs[url]
	if !ok {
		return nil, fmt.Errorf("ERROR: Unsupported URL: %s", url)
	}
	return info, nil
}

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	d, err := database.InitDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return ledger.New(repo.GetLedgerStore(d.DB), 0)
}

func makeJobs(n int, mode models.Mode) []*models.Job {
	jobs := make([]*models.Job, 0, n)
	for i := range n {
		jobs = append(jobs, models.NewJob(fmt.Sprintf("https://example.com/watch?v=%d", i), mode, "/tmp/out", false))
	}
	return jobs
}

func TestRunnerConcurrencyFollowsThreadSetting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		threads int
		want    int
	}{
		{threads: 1, want: 1},
		{threads: 2, want: 2},
		{threads: 8, want: 2},
	}

	for _, tt := range tests {
		ex := &fakeExecutor{hold: 150 * time.Millisecond}
		r := NewRunner(state.NewThreadSetting(tt.threads), ex, nil, nil)

		results := r.Run(context.Background(), makeJobs(2, models.ModeAudio))
		if len(Failed(results)) != 0 {
			t.Fatalf("threads=%d: unexpected failures: %+v", tt.threads, results)
		}
		if ex.maxInFlight != tt.want {
			t.Fatalf("threads=%d: expected %d concurrent downloads, got %d", tt.threads, tt.want, ex.maxInFlight)
		}
	}
}

func TestRunnerReadsThreadSettingPerBatch(t *testing.T) {
	t.Parallel()

	threads := state.NewThreadSetting(1)
	ex := &fakeExecutor{hold: 100 * time.Millisecond}
	r := NewRunner(threads, ex, nil, nil)

	r.Run(context.Background(), makeJobs(3, models.ModeAudio))
	if ex.maxInFlight != 1 {
		t.Fatalf("expected sequential batch, got %d in flight", ex.maxInFlight)
	}

	if err := threads.Set(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.maxInFlight = 0
	r.Run(context.Background(), makeJobs(3, models.ModeAudio))
	if ex.maxInFlight != 3 {
		t.Fatalf("expected 3 in flight after raising threads, got %d", ex.maxInFlight)
	}
}

func TestRunnerRecordsOnlyFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	l := newTestLedger(t)
	jobs := makeJobs(4, models.ModeVideoOnly)
	ex := &fakeExecutor{failures: map[string]string{
		jobs[1].URL: "ERROR: Video unavailable",
		jobs[3].URL: "ERROR: Private video",
	}}
	r := NewRunner(state.NewThreadSetting(4), ex, l, nil)

	results := r.Run(ctx, jobs)
	for i, res := range results {
		if res.Job != jobs[i] {
			t.Fatalf("result %d out of submission order", i)
		}
	}
	if n := len(Failed(results)); n != 2 {
		t.Fatalf("expected 2 failures, got %d", n)
	}

	entries, err := l.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected exactly 2 ledger entries, got %d", len(entries))
	}

	want := map[string]string{
		jobs[1].URL: "ERROR: Video unavailable",
		jobs[3].URL: "ERROR: Private video",
	}
	for _, e := range entries {
		if want[e.URL] != e.Reason || e.Mode != models.ModeVideoOnly || e.Attempts != 1 {
			t.Fatalf("unexpected ledger entry: %+v", e)
		}
	}
}

func TestRunnerDoesNotRecordCancelled(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	ex := &fakeExecutor{hold: 5 * time.Second}
	r := NewRunner(state.NewThreadSetting(2), ex, l, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	results := r.Run(ctx, makeJobs(3, models.ModeAudio))
	for _, res := range results {
		if !errors.Is(res.Err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline error, got %v", res.Err)
		}
	}

	entries, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("cancelled jobs must not be recorded, got %d entries", len(entries))
	}
}

func TestRunnerProgressOnlyForSingleJobs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ex := &fakeExecutor{}
	r := NewRunner(state.NewThreadSetting(2), ex, nil, &out)
	r.SetProgressBar(true)

	r.Run(context.Background(), makeJobs(1, models.ModeAudio))
	if !ex.gotProgress {
		t.Fatalf("expected progress callback for a single job")
	}
	if !strings.Contains(out.String(), "100%") {
		t.Fatalf("expected rendered progress bar, got %q", out.String())
	}

	ex2 := &fakeExecutor{}
	r2 := NewRunner(state.NewThreadSetting(2), ex2, nil, &out)
	r2.SetProgressBar(true)
	r2.Run(context.Background(), makeJobs(2, models.ModeAudio))
	if ex2.gotProgress {
		t.Fatalf("multi-job batches must run without progress output")
	}
}

func TestPlanJobsPlaylistSubfolder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	base := t.TempDir()

	res := &fakeResolver{docs: map[string]*models.PlaylistInfo{
		"https://www.youtube.com/playlist?list=PL1": {
			Title:      "Road/Trip Mix",
			HasEntries: true,
			Entries: []models.PlaylistEntry{
				{ID: "a", URL: "https://www.youtube.com/watch?v=a"},
				{ID: "b", URL: "https://www.youtube.com/watch?v=b"},
			},
		},
		"https://www.youtube.com/watch?v=solo": {Title: "Solo"},
	}}

	jobs, err := PlanJobs(ctx, res, []string{
		"https://www.youtube.com/playlist?list=PL1",
		"https://www.youtube.com/watch?v=solo",
	}, models.ModeAudio, true, base)
	if !errors.Is(err, ErrNotPlaylist) {
		t.Fatalf("expected ErrNotPlaylist for the single video, got %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	wantDir := filepath.Join(base, "Road_Trip Mix")
	for _, j := range jobs {
		if j.OutputDir != wantDir || !j.Playlist || j.PlaylistTitle != "Road/Trip Mix" || j.Mode != models.ModeAudio {
			t.Fatalf("unexpected playlist job: %+v", j)
		}
	}
}

func TestPlanJobsSingleMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jobs, err := PlanJobs(context.Background(), nil, []string{"https://example.com/a", "https://example.com/b"}, models.ModeVideoAudio, false, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, j := range jobs {
		if j.OutputDir != dir || j.Playlist {
			t.Fatalf("single-mode job should save directly to %q: %+v", dir, j)
		}
	}
	if jobs[0].ID == jobs[1].ID {
		t.Fatalf("jobs must have distinct IDs")
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	jobs := makeJobs(3, models.ModeAudio)
	results := []models.JobResult{
		{Job: jobs[0]},
		{Job: jobs[1], Err: errors.New("ERROR: gone")},
		{Job: jobs[2]},
	}

	var out bytes.Buffer
	PrintSummary(&out, results)
	s := out.String()

	for _, want := range []string{
		"Download summary:",
		"Audio succeeded: " + jobs[0].URL,
		"Audio failed: " + jobs[1].URL + " - ERROR: gone",
		"1/3 download(s) failed.",
		"Use [7] to retry.",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}

	out.Reset()
	PrintSummary(&out, results[:1])
	if strings.Contains(out.String(), "Download summary:") || !strings.Contains(out.String(), "succeeded") {
		t.Fatalf("unexpected single-job summary: %q", out.String())
	}
}

func TestPrintSummaryNamesPlaylistAndLedgerEntry(t *testing.T) {
	t.Parallel()

	job := models.NewJob("https://example.com/list", models.ModeVideoOnly, t.TempDir(), true)
	job.PlaylistTitle = "Lectures"
	job.LedgerID = 9

	var out bytes.Buffer
	PrintSummary(&out, []models.JobResult{{Job: job, Err: errors.New("ERROR: gone")}})
	want := "Playlist Video without Audio (Lectures) [retry #9] failed: " + job.URL
	if !strings.Contains(out.String(), want) {
		t.Fatalf("summary missing %q:\n%s", want, out.String())
	}
}

// Package downloads runs download jobs concurrently and reports their outcome.
package downloads

import (
	"context"
	"fmt"
	"io"
	"sync"

	"mediadl/internal/contracts"
	"mediadl/internal/models"
	"mediadl/internal/state"
	"mediadl/internal/utils/logging"

	"github.com/schollz/progressbar/v3"
)

// Runner runs batches of jobs on a worker pool sized by the thread setting.
type Runner struct {
	threads  *state.ThreadSetting
	exec     contracts.Executor
	recorder contracts.FailureRecorder
	out      io.Writer

	progressBar bool
}

// NewRunner returns a runner. recorder may be nil, in which case failures are only reported.
func NewRunner(threads *state.ThreadSetting, exec contracts.Executor, recorder contracts.FailureRecorder, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		threads:  threads,
		exec:     exec,
		recorder: recorder,
		out:      out,
	}
}

// SetProgressBar enables the progress bar shown for single-job batches.
func (r *Runner) SetProgressBar(enabled bool) {
	r.progressBar = enabled
}

type task struct {
	idx int
	job *models.Job
}

// Run downloads jobs and returns one result per job, in submission order.
//
// The pool size is the thread setting read when the batch starts. Failed jobs are passed
// to the recorder unless the failure was caused by cancellation of ctx.
func (r *Runner) Run(ctx context.Context, jobs []*models.Job) []models.JobResult {
	results := make([]models.JobResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	var (
		single = len(jobs) == 1
		conc   = max(min(r.threads.Get(), len(jobs)), 1)
		tasks  = make(chan task, len(jobs))
		wg     sync.WaitGroup
	)

	if !single {
		logging.I("Starting %d concurrent %s downloads with %d worker(s)...", len(jobs), jobs[0].Label(), conc)
	}

	// Start workers
	for range conc {
		wg.Go(func() {
			for t := range tasks {
				results[t.idx] = r.runJob(ctx, t.job, single)
			}
		})
	}

	// Send jobs
	for i, j := range jobs {
		tasks <- task{idx: i, job: j}
	}
	close(tasks)

	wg.Wait()
	return results
}

// runJob downloads one job and records it on failure.
func (r *Runner) runJob(ctx context.Context, job *models.Job, single bool) models.JobResult {
	if job == nil {
		return models.JobResult{Job: job, Err: fmt.Errorf("job cannot be nil")}
	}

	select {
	case <-ctx.Done():
		return models.JobResult{Job: job, Err: fmt.Errorf("skipped %q: %w", job.URL, ctx.Err())}
	default:
	}

	var onProgress func(models.Progress)
	if single && r.progressBar {
		bar := r.newBar(job)
		defer func() {
			if err := bar.Exit(); err != nil {
				logging.D(2, "Progress bar exit: %v", err)
			}
		}()
		onProgress = func(p models.Progress) {
			if err := bar.Set(int(p.Percent)); err != nil {
				logging.D(2, "Progress bar update: %v", err)
			}
		}
	}

	if single {
		logging.I("Starting %s for %s", job.Describe(), job.URL)
	} else {
		logging.D(1, "Starting %s for %s", job.Describe(), job.URL)
	}

	err := r.exec.Download(ctx, job, onProgress)
	if err == nil {
		logging.D(1, "Completed %s for %s", job.Describe(), job.URL)
		return models.JobResult{Job: job}
	}

	if ctx.Err() != nil {
		logging.W("Download of %q interrupted: %v", job.URL, ctx.Err())
		return models.JobResult{Job: job, Err: err}
	}

	if r.recorder != nil {
		if recErr := r.recorder.Add(ctx, job, err.Error()); recErr != nil {
			logging.E("Could not record failed download %q: %v", job.URL, recErr)
		}
	}
	return models.JobResult{Job: job, Err: err}
}

// newBar returns a percentage bar for job.
func (r *Runner) newBar(job *models.Job) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(job.Describe()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.out)
		}),
	)
}

package contracts

import (
	"context"

	"mediadl/internal/models"
)

// JobRunner runs a batch of jobs and reports one result per job, in submission order.
type JobRunner interface {
	Run(ctx context.Context, jobs []*models.Job) []models.JobResult
}

// FailureRecorder receives failed jobs from the runner.
type FailureRecorder interface {
	Add(ctx context.Context, job *models.Job, reason string) error
}

// Executor downloads one job through the extraction tool.
//
// A nil onProgress runs the tool with progress output disabled.
type Executor interface {
	Download(ctx context.Context, job *models.Job, onProgress func(models.Progress)) error
}

// PlaylistResolver lists the entries of a playlist URL.
type PlaylistResolver interface {
	ResolvePlaylist(ctx context.Context, url string) (*models.PlaylistInfo, error)
}

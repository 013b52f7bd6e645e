package execute

import (
	"context"
	"strings"

	"mediadl/internal/command/builder"
	"mediadl/internal/domain/command"
	"mediadl/internal/models"
	"mediadl/internal/utils/logging"
)

// YtdlpExecutor downloads jobs and resolves playlists with yt-dlp.
type YtdlpExecutor struct {
	b *builder.CommandBuilder
}

// NewYtdlpExecutor returns an executor using commands from b.
func NewYtdlpExecutor(b *builder.CommandBuilder) *YtdlpExecutor {
	return &YtdlpExecutor{
		b: b,
	}
}

// Download runs one job to completion.
func (e *YtdlpExecutor) Download(ctx context.Context, job *models.Job, onProgress func(models.Progress)) error {
	cmd, err := e.b.DownloadCommand(ctx, job, onProgress != nil)
	if err != nil {
		return err
	}

	return RunDownload(ctx, cmd, func(line string) {
		if onProgress == nil {
			return
		}
		if pct, ok := ParseProgress(line); ok {
			onProgress(models.Progress{JobID: job.ID, Percent: pct, Line: line})
			return
		}
		if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, command.DownloadPrefix) {
			logging.D(1, "%s", t)
		}
	})
}

// ResolvePlaylist returns the flat entry list of url.
func (e *YtdlpExecutor) ResolvePlaylist(ctx context.Context, url string) (*models.PlaylistInfo, error) {
	return ResolvePlaylist(ctx, e.b.PlaylistCommand(ctx, url))
}

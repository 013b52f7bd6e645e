package downloads

import (
	"context"
	"errors"
	"fmt"

	"mediadl/internal/contracts"
	"mediadl/internal/models"
	"mediadl/internal/parsing"
	"mediadl/internal/utils/logging"
)

// ErrNotPlaylist is returned when a URL resolves to a document without entries.
var ErrNotPlaylist = errors.New("not a playlist")

// ExpandPlaylist resolves url and returns one job per entry, all saved under a
// subfolder of baseDir named after the playlist.
func ExpandPlaylist(ctx context.Context, resolver contracts.PlaylistResolver, url string, mode models.Mode, baseDir string) ([]*models.Job, error) {
	logging.I("Fetching playlist info for %s...", url)

	info, err := resolver.ResolvePlaylist(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve playlist %q: %w", url, err)
	}
	if !info.HasEntries {
		return nil, fmt.Errorf("%w: %s", ErrNotPlaylist, url)
	}

	dir, err := parsing.PlaylistDir(baseDir, info.Title)
	if err != nil {
		return nil, err
	}

	urls := info.EntryURLs()
	if len(urls) < len(info.Entries) {
		logging.W("Playlist %q has %d entries without a URL, skipping them", info.Title, len(info.Entries)-len(urls))
	}

	jobs := make([]*models.Job, 0, len(urls))
	for _, u := range urls {
		j := models.NewJob(u, mode, dir, true)
		j.PlaylistTitle = info.Title
		jobs = append(jobs, j)
	}

	logging.I("Playlist %q: %d item(s) will be saved to %q", info.Title, len(jobs), dir)
	return jobs, nil
}

// PlanJobs turns user-supplied URLs into jobs.
//
// Playlist URLs are expanded into their entries. URLs that fail to resolve are reported
// and skipped; the remaining jobs are still returned.
func PlanJobs(ctx context.Context, resolver contracts.PlaylistResolver, urls []string, mode models.Mode, playlist bool, dir string) ([]*models.Job, error) {
	if !playlist {
		jobs := make([]*models.Job, 0, len(urls))
		for _, u := range urls {
			jobs = append(jobs, models.NewJob(u, mode, dir, false))
		}
		return jobs, nil
	}

	var (
		jobs []*models.Job
		errs []error
	)
	for _, u := range urls {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		expanded, err := ExpandPlaylist(ctx, resolver, u, mode, dir)
		if err != nil {
			if errors.Is(err, ErrNotPlaylist) {
				logging.W("Not a playlist: %s", u)
			} else {
				logging.E("%v", err)
			}
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, expanded...)
	}
	return jobs, errors.Join(errs...)
}

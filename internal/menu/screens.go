package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mediadl/internal/domain/consts"
	"mediadl/internal/downloads"
	"mediadl/internal/parsing"
	"mediadl/internal/utils/logging"
)

const helpText = `HELP:
- Supported sites: YouTube, Vimeo, Dailymotion, and 1000+ more (via yt-dlp)
- For playlists: Use full playlist URL (e.g., youtube.com/playlist?list=...)
- Audio extraction requires ffmpeg installed on your system
- Use Ctrl+C to cancel any operation
- Multiple URLs: Paste one per line, then press Enter twice
- Best audio quality: MP3 with VBR (quality 0) used by default
- Duplicate downloads are skipped automatically
- Retries enabled for unstable connections
- Default download path: ~/Downloads (Linux/macOS) or C:\Users\<User>\Downloads (Windows)
- [1] & [4]: Download video with audio (mp4)
- [2] & [5]: Audio-only (no video saved)
- [3] & [6]: Video without audio (no audio track)
- Thread Settings: Adjust [8] to control how many videos download at once
- Failed downloads are tracked and can be retried via [7]
- Non-interactive use: see 'mediadl get --help' and 'mediadl failed --help'
`

// collectURLs reads URLs until a blank line, then the output directory.
func (m *Machine) collectURLs(ctx context.Context) State {
	m.heading(m.choice.mode.Heading(m.choice.playlist))

	msg := "Enter URLs"
	if m.choice.playlist {
		msg = "Enter playlist URLs"
	}
	fmt.Fprintf(m.out, "%s (one per line). Press Enter twice to finish:\n", msg)

	m.urls = m.urls[:0]
	for {
		in, ok := m.ask(ctx, "> ")
		if !ok && ctx.Err() != nil {
			return Exit
		}
		if !ok || in == "" {
			break
		}

		if err := parsing.CheckInputURL(in, m.choice.playlist); err != nil {
			switch {
			case errors.Is(err, parsing.ErrPlaylistURL):
				fmt.Fprintf(m.out, "  [!] Playlist URL detected: %s. Please use the Playlist Mode for playlists.\n", in)
			default:
				fmt.Fprintf(m.out, "  [!] Invalid URL: %s\n", in)
			}
			continue
		}
		m.urls = append(m.urls, in)
	}

	if len(m.urls) == 0 {
		fmt.Fprintln(m.out, "No valid URLs provided.")
		return ContinuePrompt
	}

	fmt.Fprintf(m.out, "Default save directory: %s\n", m.d.DefaultDir)
	custom, ok := m.ask(ctx, "Enter custom directory or press Enter to use default: ")
	if !ok && ctx.Err() != nil {
		return Exit
	}

	dir, err := parsing.ResolveOutputDir(custom, m.d.DefaultDir)
	if err != nil {
		fmt.Fprintf(m.out, "Cannot create directory: %v\n", err)
		return ContinuePrompt
	}
	m.outDir = dir
	fmt.Fprintf(m.out, "Saving to: %s\n", dir)
	return RunningJobs
}

// runJobs plans the collected URLs into jobs and runs them as one batch.
func (m *Machine) runJobs(ctx context.Context) State {
	jobs, err := downloads.PlanJobs(ctx, m.d.Resolver, m.urls, m.choice.mode, m.choice.playlist, m.outDir)
	if err != nil {
		fmt.Fprintf(m.out, "Some playlists could not be processed: %v\n", err)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(m.out, "Nothing to download.")
		return ContinuePrompt
	}

	if len(jobs) > 1 {
		fmt.Fprintf(m.out, "Starting %d concurrent %s downloads...\n", len(jobs), m.modeLabel())
	}
	results := m.d.Runner.Run(ctx, jobs)
	downloads.PrintSummary(m.out, results)

	if ctx.Err() != nil {
		return Exit
	}
	if len(downloads.Failed(results)) < len(results) {
		fmt.Fprintf(m.out, "\n%s%s completed.%s\n", consts.ColorGreen, m.currentJobsLabel(results), consts.ColorReset)
	}
	return ContinuePrompt
}

// resumeMenu lists ledger entries and retries the chosen ones.
func (m *Machine) resumeMenu(ctx context.Context) State {
	m.heading("Resume Failed Downloads")

	entries, err := m.d.Ledger.List(ctx)
	if err != nil {
		logging.E("Failed to read failed downloads: %v", err)
		return ContinuePrompt
	}
	if len(entries) == 0 {
		fmt.Fprintln(m.out, "No failed downloads to resume.")
		return ContinuePrompt
	}

	printFailures(m.out, entries, m.d.Ledger.MaxAttempts())

	in, ok := m.ask(ctx, "\nChoose action: ")
	if !ok {
		return Exit
	}

	choice, err := ParseResumeChoice(in, len(entries))
	switch {
	case errors.Is(err, ErrInvalidNumber):
		fmt.Fprintln(m.out, "Invalid number.")
		return ContinuePrompt
	case err != nil:
		fmt.Fprintln(m.out, "Invalid choice.")
		return ContinuePrompt
	case choice.Cancel:
		fmt.Fprintln(m.out, "Cancelled.")
		return ContinuePrompt
	}

	if choice.All {
		eligible := 0
		for _, fj := range entries {
			if fj.Attempts < m.d.Ledger.MaxAttempts() {
				eligible++
			}
		}
		fmt.Fprintf(m.out, "\nRetrying %d failed download(s)...\n", eligible)
		report, err := m.d.Ledger.RetryAll(ctx, m.d.Runner)
		if err != nil {
			logging.E("Retry finished with errors: %v", err)
		}
		PrintRetryReport(m.out, report)
		return ContinuePrompt
	}

	ids := make([]int64, 0, len(choice.Indexes))
	for _, i := range choice.Indexes {
		fmt.Fprintf(m.out, "\nRetrying: %s\n", entries[i].URL)
		ids = append(ids, entries[i].ID)
	}
	report, err := m.d.Ledger.Retry(ctx, m.d.Runner, ids...)
	if err != nil {
		logging.E("Retry finished with errors: %v", err)
	}
	PrintRetryReport(m.out, report)
	return ContinuePrompt
}

// threadSettings shows and updates the concurrent download count.
func (m *Machine) threadSettings(ctx context.Context) State {
	m.heading("Download Thread Settings")

	fmt.Fprintf(m.out, "Current number of concurrent downloads: %d\n", m.d.Threads.Get())
	fmt.Fprintf(m.out, "Recommended: %d–5 (higher may slow down connections or overload system)\n\n", consts.MinThreads)

	in, ok := m.ask(ctx, fmt.Sprintf("Enter new number of concurrent downloads (%d-%d): ", consts.MinThreads, consts.MaxThreads))
	if !ok {
		fmt.Fprintln(m.out, "\nCancelled.")
		return ContinuePrompt
	}

	n, err := strconv.Atoi(in)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid input. Not changed.")
		return ContinuePrompt
	}
	if err := m.d.Threads.Set(n); err != nil {
		fmt.Fprintf(m.out, "Please enter a number from %d to %d. Not changed.\n", consts.MinThreads, consts.MaxThreads)
		return ContinuePrompt
	}

	fmt.Fprintf(m.out, "✅ Concurrent downloads set to: %d\n", m.d.Threads.Get())
	return ContinuePrompt
}

func (m *Machine) help() State {
	m.banner()
	fmt.Fprint(m.out, helpText)
	return ContinuePrompt
}

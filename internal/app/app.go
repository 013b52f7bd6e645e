// Package app wires mediadl's components together for one run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"mediadl/internal/command/builder"
	"mediadl/internal/command/execute"
	"mediadl/internal/database"
	"mediadl/internal/domain/command"
	"mediadl/internal/domain/keys"
	"mediadl/internal/domain/paths"
	"mediadl/internal/downloads"
	"mediadl/internal/ledger"
	"mediadl/internal/menu"
	"mediadl/internal/models"
	"mediadl/internal/parsing"
	"mediadl/internal/repo"
	"mediadl/internal/state"
	"mediadl/internal/utils/logging"
	"mediadl/internal/utils/prompt"
	"mediadl/internal/validation"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// ErrDownloadsFailed is returned by non-interactive runs when any job failed.
var ErrDownloadsFailed = errors.New("one or more downloads failed")

// App holds the components shared by the menu and the subcommands.
type App struct {
	in  io.Reader
	out io.Writer

	db      *database.Database
	threads *state.ThreadSetting
	ledger  *ledger.Ledger
	exec    *execute.YtdlpExecutor
	runner  *downloads.Runner
}

// New returns an App reading user input from in and printing to out.
func New(in io.Reader, out io.Writer) *App {
	return &App{
		in:  in,
		out: out,
	}
}

// Open opens the ledger database and the shared thread setting from configuration.
func (a *App) Open() error {
	if a.db != nil {
		return nil
	}

	dbPath := paths.LedgerDBPath
	if viper.IsSet(keys.LedgerDB) && viper.GetString(keys.LedgerDB) != "" {
		dbPath = viper.GetString(keys.LedgerDB)
	}

	db, err := database.InitDB(dbPath)
	if err != nil {
		return err
	}
	logging.D(1, "Opened failure ledger at %q", dbPath)

	a.db = db
	a.threads = state.NewThreadSetting(viper.GetInt(keys.Threads))
	a.ledger = ledger.New(repo.GetLedgerStore(db.DB), viper.GetInt(keys.MaxAttempts))
	return nil
}

// PrepareDownloads checks the external tools and builds the runner.
func (a *App) PrepareDownloads() error {
	if a.runner != nil {
		return nil
	}
	if err := a.Open(); err != nil {
		return err
	}

	// Report every missing tool at once
	ytdlpOverride, ffmpegOverride := viper.GetString(keys.YtdlpPath), viper.GetString(keys.FFmpegPath)
	if err := validation.CheckExternalTools(ytdlpOverride, ffmpegOverride); err != nil {
		return err
	}

	ytdlp, err := validation.ResolveTool(command.YTDLP, ytdlpOverride)
	if err != nil {
		return err
	}
	ffmpeg, err := validation.ResolveTool(command.FFmpeg, ffmpegOverride)
	if err != nil {
		return err
	}

	b := builder.NewCommandBuilder(builder.Settings{
		YtdlpPath:          ytdlp,
		FFmpegPath:         ffmpeg,
		Retries:            viper.GetInt(keys.Retries),
		FragmentRetries:    viper.GetInt(keys.FragmentRetries),
		CookiesFromBrowser: viper.GetString(keys.CookiesFromBrowser),
		AudioFormat:        viper.GetString(keys.AudioFormat),
		AudioQuality:       viper.GetString(keys.AudioQuality),
		VideoContainer:     viper.GetString(keys.VideoContainer),
	})

	a.exec = execute.NewYtdlpExecutor(b)
	a.runner = downloads.NewRunner(a.threads, a.exec, a.ledger, a.out)
	a.runner.SetProgressBar(isTerminal(a.out))
	return nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Ledger returns the failure ledger. Open must have been called.
func (a *App) Ledger() *ledger.Ledger {
	return a.ledger
}

// Runner returns the job runner. PrepareDownloads must have been called.
func (a *App) Runner() *downloads.Runner {
	return a.runner
}

// RunMenu runs the interactive menu until the user exits or ctx ends.
func (a *App) RunMenu(ctx context.Context) error {
	if err := a.PrepareDownloads(); err != nil {
		return err
	}

	m := menu.New(menu.Deps{
		Prompter:    prompt.New(a.in, a.out),
		Threads:     a.threads,
		Ledger:      a.ledger,
		Runner:      a.runner,
		Resolver:    a.exec,
		DefaultDir:  defaultOutputDir(),
		Interactive: isTerminal(a.out),
	})
	return m.Run(ctx)
}

// Download runs urls as one batch without prompting and prints the summary.
func (a *App) Download(ctx context.Context, urls []string, mode models.Mode, playlist bool, dir string) error {
	if err := a.PrepareDownloads(); err != nil {
		return err
	}

	var valid []string
	for _, u := range urls {
		if err := parsing.CheckInputURL(u, playlist); err != nil {
			logging.W("Skipping %v", err)
			continue
		}
		valid = append(valid, u)
	}
	if len(valid) == 0 {
		return errors.New("no valid URLs provided")
	}

	outDir, err := parsing.ResolveOutputDir(dir, defaultOutputDir())
	if err != nil {
		return err
	}
	logging.I("Saving to: %s", outDir)

	jobs, planErr := downloads.PlanJobs(ctx, a.exec, valid, mode, playlist, outDir)
	if len(jobs) == 0 {
		return fmt.Errorf("nothing to download: %w", planErr)
	}

	results := a.runner.Run(ctx, jobs)
	downloads.PrintSummary(a.out, results)

	if n := len(downloads.Failed(results)); n > 0 {
		return fmt.Errorf("%w: %d/%d", ErrDownloadsFailed, n, len(results))
	}
	return planErr
}

// defaultOutputDir is the configured output directory or the platform Downloads folder.
func defaultOutputDir() string {
	if d := viper.GetString(keys.OutputDir); d != "" {
		return d
	}
	return parsing.DefaultDownloadsDir()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

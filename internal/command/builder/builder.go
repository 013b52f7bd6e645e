// Package builder assembles yt-dlp command lines for download jobs.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"mediadl/internal/domain/command"
	"mediadl/internal/domain/consts"
	"mediadl/internal/models"
	"mediadl/internal/parsing"
	"mediadl/internal/utils/logging"

	"github.com/alessio/shellescape"
)

// Settings are the extraction tool options shared by every job.
type Settings struct {
	YtdlpPath          string
	FFmpegPath         string
	Retries            int
	FragmentRetries    int
	CookiesFromBrowser string
	AudioFormat        string
	AudioQuality       string
	VideoContainer     string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		YtdlpPath:       command.YTDLP,
		Retries:         consts.DefaultRetries,
		FragmentRetries: consts.DefaultFragmentRetries,
		AudioFormat:     consts.DefaultAudioFormat,
		AudioQuality:    consts.DefaultAudioQuality,
		VideoContainer:  consts.DefaultVideoContainer,
	}
}

// CommandBuilder builds yt-dlp commands from jobs.
type CommandBuilder struct {
	s Settings
}

// NewCommandBuilder returns a builder, filling unset fields from DefaultSettings.
//
// Zero retry counts are kept; only negative counts fall back to the defaults.
func NewCommandBuilder(s Settings) *CommandBuilder {
	def := DefaultSettings()
	if s.YtdlpPath == "" {
		s.YtdlpPath = def.YtdlpPath
	}
	if s.Retries < 0 {
		s.Retries = def.Retries
	}
	if s.FragmentRetries < 0 {
		s.FragmentRetries = def.FragmentRetries
	}
	if s.AudioFormat == "" {
		s.AudioFormat = def.AudioFormat
	}
	if s.AudioQuality == "" {
		s.AudioQuality = def.AudioQuality
	}
	if s.VideoContainer == "" {
		s.VideoContainer = def.VideoContainer
	}
	return &CommandBuilder{s: s}
}

// Settings returns the effective settings.
func (b *CommandBuilder) Settings() Settings {
	return b.s
}

// DownloadArgs returns the argument list for downloading job.
//
// showProgress selects newline-delimited progress output for a single job; otherwise
// progress output is suppressed.
func (b *CommandBuilder) DownloadArgs(job *models.Job, showProgress bool) ([]string, error) {
	if job == nil {
		return nil, errors.New("job cannot be nil")
	}
	if job.URL == "" {
		return nil, errors.New("job has no URL")
	}

	args := make([]string, 0, 32)

	// Resilience
	args = append(args,
		command.Retries, strconv.Itoa(b.s.Retries),
		command.FragmentRetries, strconv.Itoa(b.s.FragmentRetries),
		command.Continue,
		command.NoOverwrites,
		command.NoPlaylist)

	// Output location
	args = append(args, command.Output, parsing.OutputTemplate(job.OutputDir))

	// Mode
	switch job.Mode {
	case models.ModeVideoAudio:
		args = append(args,
			command.Format, command.FormatVideoAudio,
			command.RecodeVideo, b.s.VideoContainer)
	case models.ModeAudio:
		args = append(args,
			command.Format, command.FormatAudio,
			command.ExtractAudio,
			command.AudioFormat, b.s.AudioFormat,
			command.AudioQuality, b.s.AudioQuality)
	case models.ModeVideoOnly:
		args = append(args,
			command.Format, command.FormatVideoOnly,
			command.RecodeVideo, b.s.VideoContainer)
	default:
		return nil, fmt.Errorf("unsupported download mode %q", job.Mode)
	}
	args = append(args, command.EmbedMetadata)

	if b.s.FFmpegPath != "" {
		args = append(args, command.FFmpegLocation, b.s.FFmpegPath)
	}
	if b.s.CookiesFromBrowser != "" {
		args = append(args, command.CookiesFromBrowser, b.s.CookiesFromBrowser)
	}

	if showProgress {
		args = append(args, command.Newline)
	} else {
		args = append(args, command.NoProgress)
	}

	// Target URL [ MUST GO LAST !! ]
	args = append(args, job.URL)
	return args, nil
}

// DownloadCommand builds the download command for job, bound to ctx.
func (b *CommandBuilder) DownloadCommand(ctx context.Context, job *models.Job, showProgress bool) (*exec.Cmd, error) {
	args, err := b.DownloadArgs(job, showProgress)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, b.s.YtdlpPath, args...)
	logging.D(1, "Built download command for URL %q:\n%s", job.URL, shellescape.QuoteCommand(cmd.Args))
	return cmd, nil
}

// PlaylistArgs returns the argument list for resolving a playlist's flat entry list.
func (b *CommandBuilder) PlaylistArgs(url string) []string {
	args := make([]string, 0, 8)
	args = append(args, command.DumpJSON, command.FlatPlaylist, command.NoWarnings)

	if b.s.CookiesFromBrowser != "" {
		args = append(args, command.CookiesFromBrowser, b.s.CookiesFromBrowser)
	}
	return append(args, url)
}

// PlaylistCommand builds the playlist resolution command for url, bound to ctx.
func (b *CommandBuilder) PlaylistCommand(ctx context.Context, url string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, b.s.YtdlpPath, b.PlaylistArgs(url)...)
	logging.D(1, "Built playlist command for URL %q:\n%s", url, shellescape.QuoteCommand(cmd.Args))
	return cmd
}

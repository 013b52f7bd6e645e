// Package models holds the data types passed between mediadl's components.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects which streams a job keeps.
type Mode string

// Download modes.
const (
	ModeVideoAudio Mode = "video-audio"
	ModeAudio      Mode = "audio"
	ModeVideoOnly  Mode = "video-only"
)

// AllModes lists modes in menu order.
var AllModes = [...]Mode{ModeVideoAudio, ModeAudio, ModeVideoOnly}

var titleCaser = cases.Title(language.English)

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("unknown download mode %q", s)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeVideoAudio, ModeAudio, ModeVideoOnly:
		return true
	}
	return false
}

// Label returns the user-facing description of the mode.
func (m Mode) Label(playlist bool) string {
	var l string
	switch m {
	case ModeVideoAudio:
		l = "Video with Audio"
	case ModeAudio:
		l = "Audio"
	case ModeVideoOnly:
		l = "Video without Audio"
	default:
		l = string(m)
	}
	if playlist {
		return "Playlist " + l
	}
	return l
}

// Heading returns the title shown above a download screen, e.g. "Audio Only (Playlist Mode)".
func (m Mode) Heading(playlist bool) string {
	l := m.Label(false)
	if m == ModeAudio {
		l = "audio only"
	}
	suffix := "(single or multiple)"
	if playlist {
		suffix = "(playlist mode)"
	}
	return titleCaser.String(l + " " + suffix)
}

// Job is one URL's download request under a chosen mode.
type Job struct {
	ID            string
	URL           string
	Mode          Mode
	OutputDir     string
	Playlist      bool
	PlaylistTitle string

	// LedgerID is set when the job is a resubmitted ledger entry.
	LedgerID int64
}

// NewJob returns a job with a fresh ID.
func NewJob(url string, mode Mode, outputDir string, playlist bool) *Job {
	return &Job{
		ID:        uuid.NewString(),
		URL:       url,
		Mode:      mode,
		OutputDir: outputDir,
		Playlist:  playlist,
	}
}

// Label returns the mode label for this job.
func (j *Job) Label() string {
	return j.Mode.Label(j.Playlist)
}

// Describe returns the label with the playlist title and ledger entry, when known.
func (j *Job) Describe() string {
	d := j.Label()
	if j.PlaylistTitle != "" {
		d += " (" + j.PlaylistTitle + ")"
	}
	if j.LedgerID > 0 {
		d += fmt.Sprintf(" [retry #%d]", j.LedgerID)
	}
	return d
}

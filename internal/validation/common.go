// Package validation handles validation of user flag input and the runtime environment.
package validation

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"mediadl/internal/domain/command"
	"mediadl/internal/domain/consts"
	"mediadl/internal/utils/logging"
)

// ErrToolNotFound is returned when a required external program cannot be resolved.
var ErrToolNotFound = errors.New("required program not found")

var installHints = map[string]string{
	command.YTDLP:  "install it with 'pip install -U yt-dlp' or see https://github.com/yt-dlp/yt-dlp#installation",
	command.FFmpeg: "install it with your package manager or see https://ffmpeg.org/download.html",
}

// ValidateDirectory validates that the directory exists, else creates it if desired.
func ValidateDirectory(dir string, createIfNotFound bool) (os.FileInfo, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("directory path is empty")
	}
	logging.D(3, "Statting directory %q...", dir)

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("path %q is a file, not a directory", dir)
		}
		return info, nil

	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)

	case !createIfNotFound:
		return nil, fmt.Errorf("directory %q does not exist: %w", dir, err)
	}

	if err := os.MkdirAll(dir, consts.PermsGenericDir); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	logging.I("Created directory %q", dir)
	return os.Stat(dir)
}

// ValidateFile validates that the file exists and is a regular file.
func ValidateFile(f string) (os.FileInfo, error) {
	logging.D(3, "Statting file %q...", f)

	info, err := os.Stat(f)
	switch {
	case err != nil:
		return nil, fmt.Errorf("failed to stat file %q: %w", f, err)
	case info.IsDir():
		return nil, fmt.Errorf("file %q is a directory, should be a file", f)
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("%q is not a regular file", f)
	}
	return info, nil
}

// ResolveTool returns the path of the named program.
//
// override may name a binary or, for ffmpeg, the directory holding it.
func ResolveTool(name, override string) (string, error) {
	target := name
	if override != "" {
		target = override
		if info, err := os.Stat(override); err == nil && info.IsDir() {
			target = filepath.Join(override, name)
		}
	}

	p, err := exec.LookPath(target)
	if err != nil {
		hint := installHints[name]
		if hint == "" {
			return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, name, err)
		}
		return "", fmt.Errorf("%w: %s (%s): %v", ErrToolNotFound, name, hint, err)
	}
	logging.D(2, "Resolved %s at %q", name, p)
	return p, nil
}

// CheckExternalTools verifies that yt-dlp and ffmpeg can be run.
func CheckExternalTools(ytdlpPath, ffmpegPath string) error {
	var errs []error
	if _, err := ResolveTool(command.YTDLP, ytdlpPath); err != nil {
		errs = append(errs, err)
	}
	if _, err := ResolveTool(command.FFmpeg, ffmpegPath); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateAudioFormat checks the post-processing audio format.
func ValidateAudioFormat(f string) (string, error) {
	f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
	if !slices.Contains([]string{
		"best",
		"aac",
		"alac",
		"flac",
		"m4a",
		"mp3",
		"opus",
		"vorbis",
		"wav",
	}, f) {
		return "", fmt.Errorf("audio format %q is invalid or not supported", f)
	}
	return f, nil
}

// ValidateAudioQuality checks a VBR quality (0-10) or bitrate such as "192K".
func ValidateAudioQuality(q string) (string, error) {
	q = strings.ToUpper(strings.TrimSpace(q))

	if n, err := strconv.Atoi(q); err == nil {
		if n < 0 || n > 10 {
			return "", fmt.Errorf("audio quality %d must be between 0 (best) and 10 (worst)", n)
		}
		return q, nil
	}

	if rate, ok := strings.CutSuffix(q, "K"); ok {
		if n, err := strconv.Atoi(rate); err == nil && n > 0 {
			return q, nil
		}
	}
	return "", fmt.Errorf("invalid audio quality %q", q)
}

// ValidateVideoContainer checks the container videos are recoded to.
func ValidateVideoContainer(e string) (string, error) {
	e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
	if !slices.Contains([]string{
		"avi",
		"flv",
		"mkv",
		"mov",
		"mp4",
		"webm",
	}, e) {
		return "", fmt.Errorf("video container %q is invalid or not supported", e)
	}
	return e, nil
}

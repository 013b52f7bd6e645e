// Package parsing resolves user input into URLs and output locations.
package parsing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"mediadl/internal/domain/consts"
	"mediadl/internal/utils/logging"
	"mediadl/internal/validation"

	"golang.org/x/text/unicode/norm"
)

// Characters replaced in playlist folder names.
const reservedPathChars = `<>:"/\|?*`

// DefaultDownloadsDir returns ~/Downloads if it exists, else the relative fallback directory.
func DefaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return consts.FallbackDownloadsDir
	}

	dl := filepath.Join(home, consts.DownloadsDirName)
	if info, err := os.Stat(dl); err == nil && info.IsDir() {
		return dl
	}
	return consts.FallbackDownloadsDir
}

// ResolveOutputDir returns the directory to save into, creating it if needed.
//
// An empty input selects def. A path naming an existing file is rejected; if the directory
// cannot be created the fallback directory is used.
func ResolveOutputDir(input, def string) (string, error) {
	dir := strings.TrimSpace(input)
	if dir == "" {
		dir = def
	}
	dir = expandHome(dir)

	if _, err := validation.ValidateDirectory(dir, true); err != nil {
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return "", err
		}
		logging.E("Cannot create directory %q: %v", dir, err)
		logging.I("Using %q instead.", consts.FallbackDownloadsDir)

		if err := os.MkdirAll(consts.FallbackDownloadsDir, consts.PermsOutputDir); err != nil {
			return "", fmt.Errorf("failed to create fallback directory %q: %w", consts.FallbackDownloadsDir, err)
		}
		return consts.FallbackDownloadsDir, nil
	}
	return dir, nil
}

// PlaylistDir returns (and creates) the subfolder for a playlist under base.
func PlaylistDir(base, playlistTitle string) (string, error) {
	dir := filepath.Join(base, SanitizeFolderName(playlistTitle))
	if err := os.MkdirAll(dir, consts.PermsPlaylistDir); err != nil {
		return "", fmt.Errorf("failed to create playlist directory %q: %w", dir, err)
	}
	return dir, nil
}

// OutputTemplate returns the extraction tool's output template for files saved in dir.
func OutputTemplate(dir string) string {
	return filepath.Join(dir, consts.OutputFilenameTemplate)
}

// SanitizeFolderName makes a playlist title safe to use as one path element.
func SanitizeFolderName(title string) string {
	title = norm.NFC.String(title)

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case strings.ContainsRune(reservedPathChars, r):
			b.WriteRune('_')
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Trim(strings.TrimSpace(b.String()), ".")
	out = strings.TrimSpace(out)
	if out == "" {
		return consts.UnknownPlaylistTitle
	}
	return out
}

// expandHome expands a leading "~/" to the user's home directory.
func expandHome(dir string) string {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}

package parsing

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"

	"mediadl/internal/utils/logging"

	"golang.org/x/net/publicsuffix"
)

// Errors returned by URL checks.
var (
	ErrInvalidURL  = errors.New("invalid URL")
	ErrPlaylistURL = errors.New("playlist URL in single mode")
)

var validURL = regexp.MustCompile(`^https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+`)

// Registrable domains treated as YouTube for playlist detection.
var youtubeDomains = map[string]struct{}{
	"youtube.com": {},
	"youtu.be":    {},
}

// IsValidURL reports whether s looks like an http(s) URL with a host.
func IsValidURL(s string) bool {
	return validURL.MatchString(s)
}

// IsPurePlaylistURL reports whether s points at a YouTube playlist rather than a video in a playlist.
func IsPurePlaylistURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(u.Hostname()))
	if err != nil {
		return false
	}
	if _, ok := youtubeDomains[domain]; !ok {
		return false
	}

	q := u.Query()
	return q.Has("list") && !q.Has("v")
}

// CheckInputURL validates one user-entered URL for the given mode.
func CheckInputURL(s string, expectPlaylist bool) error {
	if !IsValidURL(s) {
		return fmt.Errorf("%w: %s", ErrInvalidURL, s)
	}
	if !expectPlaylist && IsPurePlaylistURL(s) {
		return fmt.Errorf("%w: %s", ErrPlaylistURL, s)
	}
	return nil
}

// URLFileParser is used to parse URLs from a batch file.
type URLFileParser struct {
	Filepath string
	mu       sync.RWMutex
}

// NewURLFileParser returns an instance of a URLFileParser.
//
// This is used to parse URLs from a file.
func NewURLFileParser(fpath string) *URLFileParser {
	return &URLFileParser{
		Filepath: fpath,
	}
}

// ParseURLs returns the URLs from the file in file order, without duplicates.
//
// Users should put a single URL on each line in the file for proper parsing.
// Hashtags should work to exclude lines (i.e. '# Comment').
func (up *URLFileParser) ParseURLs() ([]string, error) {
	up.mu.RLock()
	defer up.mu.RUnlock()

	f, err := os.Open(up.Filepath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.E("Failed to close file %q: %v", up.Filepath, err)
		}
	}()

	var (
		seen   = make(map[string]struct{})
		result []string
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		u := strings.TrimSpace(scanner.Text())
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}

		if !IsValidURL(u) {
			logging.E("URL %q is invalid, skipping", u)
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		result = append(result, u)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

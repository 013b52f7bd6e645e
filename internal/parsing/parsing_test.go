package parsing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediadl/internal/domain/consts"
)

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://www.youtube.com/watch?v=abc": true,
		"http://vimeo.com/123":                true,
		"https://%41example.com/":             true,
		"ftp://example.com/file":              false,
		"youtube.com/watch?v=abc":             false,
		"https://":                            false,
		"":                                    false,
	}

	for in, want := range tests {
		if got := IsValidURL(in); got != want {
			t.Fatalf("IsValidURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsPurePlaylistURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://www.youtube.com/playlist?list=PL123":          true,
		"https://m.youtube.com/playlist?list=PL123":            true,
		"https://youtu.be/?list=PL123":                         true,
		"https://www.youtube.com/watch?v=abc&list=PL123":       false,
		"https://www.youtube.com/watch?v=abc":                  false,
		"https://vimeo.com/showcase?list=1":                    false,
		"https://notyoutube.com.evil.example/playlist?list=PL": false,
		"::::::not-a-url":                                      false,
	}

	for in, want := range tests {
		if got := IsPurePlaylistURL(in); got != want {
			t.Fatalf("IsPurePlaylistURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckInputURL(t *testing.T) {
	t.Parallel()

	pl := "https://www.youtube.com/playlist?list=PL123"
	if err := CheckInputURL(pl, false); !errors.Is(err, ErrPlaylistURL) {
		t.Fatalf("expected ErrPlaylistURL in single mode, got %v", err)
	}
	if err := CheckInputURL(pl, true); err != nil {
		t.Fatalf("expected playlist URL accepted in playlist mode, got %v", err)
	}
	if err := CheckInputURL("not a url", true); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestURLFileParser(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "# comment\nhttps://example.com/a\n\n  https://example.com/b  \nnot-a-url\nhttps://example.com/a\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	urls, err := NewURLFileParser(path).ParseURLs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://example.com/a" || urls[1] != "https://example.com/b" {
		t.Fatalf("unexpected urls: %v", urls)
	}

	if _, err := NewURLFileParser(filepath.Join(t.TempDir(), "missing.txt")).ParseURLs(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSanitizeFolderName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"My Playlist":    "My Playlist",
		"a/b\\c:d*e?f":   "a_b_c_d_e_f",
		"  ..hidden..  ": "hidden",
		"":               consts.UnknownPlaylistTitle,
		"...":            consts.UnknownPlaylistTitle,
		"tab\there":      "tabhere",
		"Café Classics": "Café Classics",
	}

	for in, want := range tests {
		if got := SanitizeFolderName(in); got != want {
			t.Fatalf("SanitizeFolderName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlaylistDirAndTemplate(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	dir, err := PlaylistDir(base, "Road/Trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(base, "Road_Trip") {
		t.Fatalf("unexpected playlist dir %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("playlist dir not created: %v", err)
	}

	if got := OutputTemplate(base); got != filepath.Join(base, "%(title)s [%(id)s].%(ext)s") {
		t.Fatalf("unexpected template %q", got)
	}
}

func TestResolveOutputDir(t *testing.T) {
	t.Parallel()

	def := filepath.Join(t.TempDir(), "default")
	got, err := ResolveOutputDir("  ", def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != def {
		t.Fatalf("expected default %q, got %q", def, got)
	}

	custom := filepath.Join(t.TempDir(), "nested", "custom")
	got, err = ResolveOutputDir(custom, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != custom {
		t.Fatalf("expected %q, got %q", custom, got)
	}
	if _, err := os.Stat(custom); err != nil {
		t.Fatalf("custom dir not created: %v", err)
	}

	regular := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(regular, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if got, err := ResolveOutputDir(regular, def); err == nil {
		t.Fatalf("expected error for a regular file, got %q", got)
	}
}

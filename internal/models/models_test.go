package models

import "testing"

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"audio", ModeAudio, false},
		{" Video-Audio ", ModeVideoAudio, false},
		{"video-only", ModeVideoOnly, false},
		{"flac", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModeLabels(t *testing.T) {
	t.Parallel()

	if got := ModeVideoAudio.Label(false); got != "Video with Audio" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := ModeAudio.Label(true); got != "Playlist Audio" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := ModeAudio.Heading(true); got != "Audio Only (Playlist Mode)" {
		t.Fatalf("unexpected heading %q", got)
	}
	if got := ModeVideoOnly.Heading(false); got != "Video Without Audio (Single Or Multiple)" {
		t.Fatalf("unexpected heading %q", got)
	}
}

func TestFailedJobToJob(t *testing.T) {
	t.Parallel()

	f := &FailedJob{ID: 7, URL: "https://example.com/v", Mode: ModeAudio, OutputDir: "/tmp/out", Playlist: true}
	j := f.ToJob()
	if j.LedgerID != 7 || j.URL != f.URL || j.Mode != f.Mode || j.OutputDir != f.OutputDir || !j.Playlist {
		t.Fatalf("job does not mirror ledger entry: %+v", j)
	}
	if j.ID == "" {
		t.Fatalf("expected generated job ID")
	}
}

func TestJobDescribe(t *testing.T) {
	t.Parallel()

	j := NewJob("https://example.com/v", ModeAudio, "/tmp/out", false)
	if got := j.Describe(); got != "Audio" {
		t.Fatalf("expected plain label, got %q", got)
	}

	j.Playlist = true
	j.PlaylistTitle = "Road Trip"
	j.LedgerID = 4
	if got := j.Describe(); got != "Playlist Audio (Road Trip) [retry #4]" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestPlaylistEntryURLs(t *testing.T) {
	t.Parallel()

	p := &PlaylistInfo{Entries: []PlaylistEntry{{URL: "a"}, {ID: "x"}, {URL: "b"}}}
	urls := p.EntryURLs()
	if len(urls) != 2 || urls[0] != "a" || urls[1] != "b" {
		t.Fatalf("unexpected urls %v", urls)
	}
}

// Package command holds flag names for the external programs mediadl drives.
package command

// Programs
const (
	YTDLP  = "yt-dlp"
	FFmpeg = "ffmpeg"
)

// General
const (
	Continue           = "--continue"
	CookiesFromBrowser = "--cookies-from-browser"
	FFmpegLocation     = "--ffmpeg-location"
	FragmentRetries    = "--fragment-retries"
	Newline            = "--newline"
	NoOverwrites       = "--no-overwrites"
	NoPlaylist         = "--no-playlist"
	NoProgress         = "--no-progress"
	NoWarnings         = "--no-warnings"
	Output             = "-o"
	Retries            = "--retries"
)

// Format selection and post-processing
const (
	Format        = "-f"
	ExtractAudio  = "--extract-audio"
	AudioFormat   = "--audio-format"
	AudioQuality  = "--audio-quality"
	RecodeVideo   = "--recode-video"
	EmbedMetadata = "--embed-metadata"
)

// Format selectors
const (
	FormatVideoAudio = "bestvideo+bestaudio"
	FormatAudio      = "bestaudio/best"
	FormatVideoOnly  = "bestvideo"
)

// Playlist resolution
const (
	FlatPlaylist = "--flat-playlist"
	DumpJSON     = "-J"
)

// Output parsing
const (
	ErrorPrefix    = "ERROR:"
	DownloadPrefix = "[download]"
)

// Package keys holds various keys for software operations, such as terminal input keys and internal Viper keys.
package keys

// Files and directories.
const (
	ConfigFile string = "config-file"
	OutputDir  string = "output-dir"
	LedgerDB   string = "ledger-db"
)

// External programs.
const (
	YtdlpPath  string = "ytdlp-path"
	FFmpegPath string = "ffmpeg-path"
)

// Download behaviour.
const (
	Threads            string = "threads"
	MaxAttempts        string = "max-attempts"
	Retries            string = "retries"
	FragmentRetries    string = "fragment-retries"
	CookiesFromBrowser string = "cookies-from-browser"
	AudioFormat        string = "audio-format"
	AudioQuality       string = "audio-quality"
	VideoContainer     string = "video-container"
)

// Logging.
const (
	DebugLevel string = "debug-level"
)

// Failed job subcommands.
const (
	RetryAll string = "all"
)

// Package consts holds various global, unchanging values.
package consts

// Thread setting bounds.
const (
	DefaultThreads = 5
	MinThreads     = 1
	MaxThreads     = 10
)

// Ledger.
const (
	DefaultMaxAttempts = 5
)

// Extraction tool defaults.
const (
	DefaultRetries         = 5
	DefaultFragmentRetries = 10
	DefaultAudioFormat     = "mp3"
	DefaultAudioQuality    = "0"
	DefaultVideoContainer  = "mp4"
)

// Output naming.
const (
	OutputFilenameTemplate = "%(title)s [%(id)s].%(ext)s"
	UnknownPlaylistTitle   = "Unknown_Playlist"
	FallbackDownloadsDir   = "./downloads"
	DownloadsDirName       = "Downloads"
)

// MaxErrorLen caps stored failure reasons.
const MaxErrorLen = 1024

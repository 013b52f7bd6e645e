package consts

// Program identity.
const (
	ProgramName    = "mediadl"
	ProgramBanner  = "SimpleMediaDownloader"
	ProgramTagline = "Powered by yt-dlp and ffmpeg"
	EnvPrefix      = "MEDIADL"
)

// Time formats.
const (
	TimeFormatLog    = "2006-01-02 15:04:05.00 MST"
	TimeFormatLedger = "2006-01-02 15:04:05"
)

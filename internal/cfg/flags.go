package cfg

import (
	"mediadl/internal/domain/consts"
	"mediadl/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindPersistent binds a persistent flag to its Viper key.
func bindPersistent(cmd *cobra.Command, key string) error {
	return viper.BindPFlag(key, cmd.PersistentFlags().Lookup(key))
}

// initProgramFlags initializes user flag settings related to the core program. E.g. logging level.
func initProgramFlags(rootCmd *cobra.Command) error {
	pf := rootCmd.PersistentFlags()

	pf.String(keys.ConfigFile, "", "Config file to load (default: config.<ext> in the program directory)")
	pf.String(keys.LedgerDB, "", "Path to the failed downloads database")
	pf.Int(keys.DebugLevel, 0, "Debugging level (0 - 5)")

	return bindAll(rootCmd, keys.ConfigFile, keys.LedgerDB, keys.DebugLevel)
}

// initDownloadFlags initializes flags controlling downloads and the external tools.
func initDownloadFlags(rootCmd *cobra.Command) error {
	pf := rootCmd.PersistentFlags()

	pf.StringP(keys.OutputDir, "o", "", "Default save directory (default: the platform Downloads folder)")
	pf.IntP(keys.Threads, "t", consts.DefaultThreads, "Concurrent downloads (1 - 10)")
	pf.Int(keys.MaxAttempts, consts.DefaultMaxAttempts, "Total attempts allowed per failed download before retries are skipped")

	pf.String(keys.YtdlpPath, "", "yt-dlp binary or the directory holding it (default: found in $PATH)")
	pf.String(keys.FFmpegPath, "", "ffmpeg binary or the directory holding it (default: found in $PATH)")
	pf.Int(keys.Retries, consts.DefaultRetries, "Retries yt-dlp makes per download")
	pf.Int(keys.FragmentRetries, consts.DefaultFragmentRetries, "Retries yt-dlp makes per fragment")
	pf.String(keys.CookiesFromBrowser, "", "Browser to load cookies from (e.g. 'firefox')")

	pf.String(keys.AudioFormat, consts.DefaultAudioFormat, "Audio format for audio-only downloads")
	pf.String(keys.AudioQuality, consts.DefaultAudioQuality, "Audio quality (0 best - 10 worst, or a bitrate like 192K)")
	pf.String(keys.VideoContainer, consts.DefaultVideoContainer, "Container for merged video downloads")

	return bindAll(rootCmd,
		keys.OutputDir, keys.Threads, keys.MaxAttempts,
		keys.YtdlpPath, keys.FFmpegPath, keys.Retries, keys.FragmentRetries, keys.CookiesFromBrowser,
		keys.AudioFormat, keys.AudioQuality, keys.VideoContainer)
}

func bindAll(cmd *cobra.Command, ks ...string) error {
	for _, k := range ks {
		if err := bindPersistent(cmd, k); err != nil {
			return err
		}
	}
	return nil
}

// setModeFlags sets the mode selection flags for download commands.
func setModeFlags(fs *pflag.FlagSet, mode *string, playlist *bool) {
	if mode != nil {
		fs.StringVarP(mode, "mode", "m", "video-audio", "Download mode (video-audio, audio, video-only)")
	}
	if playlist != nil {
		fs.BoolVarP(playlist, "playlist", "p", false, "Treat URLs as playlists and save each into its own subfolder")
	}
}

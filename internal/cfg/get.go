package cfg

import (
	"context"
	"errors"

	"mediadl/internal/app"
	"mediadl/internal/domain/keys"
	"mediadl/internal/models"
	"mediadl/internal/parsing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initGetCmd downloads URLs given on the command line or in a batch file, without the menu.
func initGetCmd(ctx context.Context, a *app.App) *cobra.Command {
	var (
		modeName, batchFile string
		playlist            bool
	)

	getCmd := &cobra.Command{
		Use:   "get [URL...]",
		Short: "Download URLs without the interactive menu.",
		Long:  "Download one or more URLs in the chosen mode. URLs may also be read from a batch file with one URL per line ('#' starts a comment).",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := models.ParseMode(modeName)
			if err != nil {
				return err
			}

			urls := append([]string(nil), args...)
			if batchFile != "" {
				fromFile, err := parsing.NewURLFileParser(batchFile).ParseURLs()
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return errors.New("must enter at least one URL or a --batch-file")
			}

			return a.Download(ctx, urls, mode, playlist, viper.GetString(keys.OutputDir))
		},
	}

	setModeFlags(getCmd.Flags(), &modeName, &playlist)
	getCmd.Flags().StringVarP(&batchFile, "batch-file", "a", "", "File containing URLs to download, one per line")
	return getCmd
}

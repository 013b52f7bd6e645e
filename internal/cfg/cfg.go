// Package cfg provides configuration and command-line interface setup for mediadl.
package cfg

import (
	"context"
	"fmt"
	"strings"

	"mediadl/internal/app"
	"mediadl/internal/domain/consts"
	"mediadl/internal/domain/keys"
	"mediadl/internal/domain/paths"
	"mediadl/internal/file"
	"mediadl/internal/utils/logging"
	"mediadl/internal/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the command tree around a.
//
// Running the root command without a subcommand opens the interactive menu.
func NewRootCmd(ctx context.Context, a *app.App) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           consts.ProgramName,
		Short:         fmt.Sprintf("%s downloads video and audio from the web. %s.", consts.ProgramBanner, consts.ProgramTagline),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			return validation.ValidateViperFlags()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.RunMenu(ctx)
		},
	}

	viper.SetEnvPrefix(consts.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // Convert "output-dir" to "MEDIADL_OUTPUT_DIR"
	viper.AutomaticEnv()

	if err := initProgramFlags(rootCmd); err != nil {
		return nil, err
	}
	if err := initDownloadFlags(rootCmd); err != nil {
		return nil, err
	}

	rootCmd.AddCommand(initGetCmd(ctx, a))
	rootCmd.AddCommand(initFailedCmds(ctx, a))
	return rootCmd, nil
}

// Execute builds the command tree and runs it with the process arguments.
func Execute(ctx context.Context, a *app.App) error {
	rootCmd, err := NewRootCmd(ctx, a)
	if err != nil {
		return err
	}
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the config file named by --config-file, or the one found in the program directory.
func loadConfig() error {
	configFile := viper.GetString(keys.ConfigFile)
	if configFile == "" && paths.HomeProgDir != "" {
		found, err := file.FindConfigFile(paths.HomeProgDir)
		if err != nil {
			logging.W("Could not scan %q for a config file: %v", paths.HomeProgDir, err)
			return nil
		}
		configFile = found
	}
	if configFile == "" {
		return nil
	}

	if err := file.LoadConfigFile(viper.GetViper(), configFile); err != nil {
		return fmt.Errorf("failed loading config file %q: %w", configFile, err)
	}
	return nil
}

package validation

import (
	"fmt"

	"mediadl/internal/domain/keys"
	"mediadl/internal/state"
	"mediadl/internal/utils/logging"

	"github.com/spf13/viper"
)

// ValidateViperFlags verifies that the user input flags are valid, normalizing them in place.
func ValidateViperFlags() error {
	ValidateLoggingLevel()

	if err := state.ValidateThreads(viper.GetInt(keys.Threads)); err != nil {
		return fmt.Errorf("invalid --%s: %w", keys.Threads, err)
	}
	if n := viper.GetInt(keys.MaxAttempts); n < 1 {
		return fmt.Errorf("invalid --%s %d: must be at least 1", keys.MaxAttempts, n)
	}
	if n := viper.GetInt(keys.Retries); n < 0 {
		return fmt.Errorf("invalid --%s %d: must not be negative", keys.Retries, n)
	}
	if n := viper.GetInt(keys.FragmentRetries); n < 0 {
		return fmt.Errorf("invalid --%s %d: must not be negative", keys.FragmentRetries, n)
	}

	normalizers := map[string]func(string) (string, error){
		keys.AudioFormat:    ValidateAudioFormat,
		keys.AudioQuality:   ValidateAudioQuality,
		keys.VideoContainer: ValidateVideoContainer,
	}
	for key, fn := range normalizers {
		v, err := fn(viper.GetString(key))
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", key, err)
		}
		viper.Set(key, v)
	}
	return nil
}

// ValidateLoggingLevel checks and validates the debug level.
func ValidateLoggingLevel() {
	logging.SetLevel(viper.GetInt(keys.DebugLevel))
}

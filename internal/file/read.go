// Package file contains utilities related to file operations (e.g. reading config files).
package file

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mediadl/internal/utils/logging"
	"mediadl/internal/validation"

	"github.com/spf13/viper"
)

// configBaseName is the base name looked up in the program directory.
const configBaseName = "config"

// LoadConfigFile loads in the configuration file.
func LoadConfigFile(v *viper.Viper, file string) error {
	if _, err := validation.ValidateFile(file); err != nil {
		return err
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	logging.D(1, "Loaded config file %q", file)
	return nil
}

// FindConfigFile returns the first "config.<ext>" in dirPath with a Viper-supported extension.
//
// An empty path and nil error mean no config file is present.
func FindConfigFile(dirPath string) (string, error) {
	files, err := ScanDirectoryForConfigFiles(dirPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	for _, f := range files {
		name := filepath.Base(f)
		if strings.TrimSuffix(name, filepath.Ext(name)) == configBaseName {
			return f, nil
		}
	}
	return "", nil
}

// ScanDirectoryForConfigFiles scans a directory for Viper-compatible config files.
// Returns a sorted slice of paths to candidate config files.
func ScanDirectoryForConfigFiles(dirPath string) ([]string, error) {
	// Validate directory exists
	dirInfo, err := os.Stat(dirPath)
	if err != nil {
		return nil, err
	}
	if !dirInfo.IsDir() {
		return nil, os.ErrInvalid
	}

	// Read directory contents
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var configFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Viper supported extensions
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		if slices.Contains(viper.SupportedExts, ext) {
			configFiles = append(configFiles, filepath.Join(dirPath, entry.Name()))
		}
	}

	slices.Sort(configFiles)
	return configFiles, nil
}

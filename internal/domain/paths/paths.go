// Package paths initializes mediadl's filepaths, directories, etc.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mediadl/internal/domain/consts"
)

const (
	progDir     = ".mediadl"
	ledgerFile  = "ledger.db"
	logFileName = "mediadl.log"
)

// File and directory path strings.
var (
	HomeProgDir  string
	LedgerDBPath string
	LogFilePath  string
)

// InitProgFilesDirs initializes necessary program directories and filepaths.
func InitProgFilesDirs() error {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return errors.New("failed to get home directory")
	}

	// Home program dir ~/.mediadl
	HomeProgDir = filepath.Join(userHomeDir, progDir)
	if _, err := os.Stat(HomeProgDir); os.IsNotExist(err) {
		if err := os.MkdirAll(HomeProgDir, consts.PermsHomeProgDir); err != nil {
			return fmt.Errorf("failed to make directories: %w", err)
		}
	}

	// Main files
	LedgerDBPath = filepath.Join(HomeProgDir, ledgerFile)
	LogFilePath = filepath.Join(HomeProgDir, logFileName)
	return nil
}

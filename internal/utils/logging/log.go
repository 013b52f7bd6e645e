// Package logging prints tagged console messages and mirrors them to the program log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"
	"time"

	"mediadl/internal/domain/consts"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

var (
	// Level is the active debug level. D messages at or below it are printed.
	Level = 0

	mu         sync.Mutex
	console    io.Writer = colorable.NewColorableStdout()
	fileLogger *zerolog.Logger
)

// Regular expression to match ANSI escape codes
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// SetupLogging creates and/or opens the log file and attaches it as the file sink.
//
// The returned closer must be closed on exit.
func SetupLogging(logFilePath string) (io.Closer, error) {
	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, consts.PermsLogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(f).With().Timestamp().Str("program", consts.ProgramName).Logger()

	mu.Lock()
	fileLogger = &zl
	mu.Unlock()

	zl.Info().Msgf("=========== %v ===========", time.Now().Format(time.RFC1123Z))
	return f, nil
}

// SetLevel sets the debug level, clamped to 0-5.
func SetLevel(l int) {
	mu.Lock()
	defer mu.Unlock()
	Level = min(max(l, 0), 5)
}

// SetConsole replaces the console writer. Returns the previous writer.
func SetConsole(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := console
	console = w
	return prev
}

// writeLog writes the message to the log file, if one is attached. Callers hold mu.
func writeLog(msg string, lvl zerolog.Level) {
	if fileLogger == nil {
		return
	}
	fileLogger.WithLevel(lvl).Msg(stripAnsiCodes(msg))
}

// stripAnsiCodes removes ANSI escape codes from a string.
func stripAnsiCodes(input string) string {
	return ansiEscape.ReplaceAllString(input, "")
}

// Package execute runs the extraction tool and interprets its output.
package execute

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"mediadl/internal/domain/command"
	"mediadl/internal/utils/logging"
)

const (
	scanBufInitial = 64 * 1024
	scanBufMax     = 1024 * 1024
)

var progressRx = regexp.MustCompile(`^\[download\]\s+(\d{1,3}(?:\.\d+)?)%`)

// DownloadError is returned when the extraction tool fails.
//
// Message holds the text recorded as the failure reason.
type DownloadError struct {
	Message string
	Err     error
}

func (e *DownloadError) Error() string {
	return e.Message
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// outputLine is one line of tool output.
type outputLine struct {
	text   string
	stderr bool
}

// RunDownload runs cmd, passing each output line to onLine, and waits for it to exit.
//
// cmd must be created with exec.CommandContext. When ctx is cancelled the whole
// process group is killed and the context error is returned.
func RunDownload(ctx context.Context, cmd *exec.Cmd, onLine func(string)) error {
	if cmd == nil {
		return errors.New("no command to run")
	}

	// Set process group to allow killing children processes (e.g. ffmpeg)
	setProcessGroup(cmd)

	// Set pipes
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe error: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return &DownloadError{
			Message: fmt.Sprintf("failed to start %s: %v", cmd.Path, err),
			Err:     err,
		}
	}

	// Merge stdout and stderr into lineChan
	lineChan := make(chan outputLine, 100)
	var wg sync.WaitGroup
	wg.Go(func() { scanOutput(stdout, false, lineChan) })
	wg.Go(func() { scanOutput(stderr, true, lineChan) })
	go func() {
		wg.Wait()
		close(lineChan)
	}()

	var capture errorCapture
	for l := range lineChan {
		if l.text != "" {
			logging.D(4, "Extraction tool output: %q", l.text)
		}
		capture.observe(l)
		if onLine != nil {
			onLine(l.text)
		}
	}

	// Pipes are drained, safe to wait
	waitErr := cmd.Wait()
	switch {
	case waitErr == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("download interrupted: %w", ctx.Err())
	default:
		return &DownloadError{
			Message: capture.reason(waitErr),
			Err:     waitErr,
		}
	}
}

// ParseProgress extracts the percentage from a "[download]  42.0% of ..." line.
func ParseProgress(line string) (float64, bool) {
	m := progressRx.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return min(pct, 100), true
}

// scanOutput sends each line read from r to lineChan.
func scanOutput(r io.Reader, isStderr bool, lineChan chan<- outputLine) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, scanBufInitial), scanBufMax)
	for scanner.Scan() {
		lineChan <- outputLine{text: scanner.Text(), stderr: isStderr}
	}
	if err := scanner.Err(); err != nil {
		logging.D(1, "Scanner error: %v", err)
		// Drain so the process never blocks on a full pipe
		_, _ = io.Copy(io.Discard, r)
	}
}

// errorCapture remembers the lines worth reporting when the tool fails.
type errorCapture struct {
	firstError string
	lastStderr string
}

func (c *errorCapture) observe(l outputLine) {
	text := strings.TrimSpace(l.text)
	if text == "" {
		return
	}
	if c.firstError == "" && strings.HasPrefix(text, command.ErrorPrefix) {
		c.firstError = text
	}
	if l.stderr {
		c.lastStderr = text
	}
}

// reason returns the failure text: the first "ERROR:" line, else the last stderr line,
// else the exit error itself.
func (c *errorCapture) reason(err error) string {
	switch {
	case c.firstError != "":
		return c.firstError
	case c.lastStderr != "":
		return c.lastStderr
	case err != nil:
		return err.Error()
	default:
		return "download failed"
	}
}

// reasonFromOutput applies errorCapture to buffered stderr output.
func reasonFromOutput(stderr string, err error) string {
	var c errorCapture
	for line := range strings.Lines(stderr) {
		c.observe(outputLine{text: line, stderr: true})
	}
	return c.reason(err)
}

package file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediadl/internal/domain/consts"
	"mediadl/internal/utils/logging"
)

// AppendURLsToFile appends urls to a batch file, one per line, skipping URLs already in it.
//
// Returns the number of URLs written.
func AppendURLsToFile(filename string, urls []string) (int, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	logging.D(2, "Appending %d URL(s) to file %q", len(urls), filename)

	if err := os.MkdirAll(filepath.Dir(filename), consts.PermsOutputDir); err != nil {
		return 0, fmt.Errorf("failed to create directory for %q: %w", filename, err)
	}

	written, err := readLines(filename)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, consts.PermsBatchFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %q: %w", filename, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.E("Failed to close file %q: %v", filename, err)
		}
	}()

	var (
		w = bufio.NewWriter(f)
		n int
	)
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := written[u]; ok {
			continue
		}
		if _, err := w.WriteString(u + "\n"); err != nil {
			return n, fmt.Errorf("error writing URL to file: %w", err)
		}
		written[u] = struct{}{}
		n++
	}

	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("error flushing URLs to file: %w", err)
	}
	return n, nil
}

// readLines returns the trimmed lines of filename. A missing file yields an empty set.
func readLines(filename string) (map[string]struct{}, error) {
	lines := make(map[string]struct{})

	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return lines, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filename, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines[strings.TrimSpace(scanner.Text())] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading existing URLs: %w", err)
	}
	return lines, nil
}

package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mediadl/internal/domain/consts"
	"mediadl/internal/domain/keys"
	"mediadl/internal/ledger"
	"mediadl/internal/models"
)

var (
	ErrInvalidChoice = errors.New("invalid choice")
	ErrInvalidNumber = errors.New("invalid number")
)

// ResumeChoice is a parsed answer to the resume menu.
type ResumeChoice struct {
	All    bool
	Cancel bool

	// Indexes are zero-based positions in the listed entries, in input order.
	Indexes []int
}

// ParseResumeChoice parses "a", "c", "all", a number or a comma-separated list of
// numbers. Numbers are 1-based and must be within [1, n].
func ParseResumeChoice(in string, n int) (ResumeChoice, error) {
	in = strings.ToLower(strings.TrimSpace(in))
	switch in {
	case "a", keys.RetryAll:
		return ResumeChoice{All: true}, nil
	case "c", "cancel":
		return ResumeChoice{Cancel: true}, nil
	case "":
		return ResumeChoice{}, ErrInvalidChoice
	}

	var (
		parts = strings.Split(in, ",")
		seen  = make(map[int]struct{}, len(parts))
		rc    ResumeChoice
	)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		i, err := strconv.Atoi(p)
		if err != nil {
			return ResumeChoice{}, fmt.Errorf("%w: %q", ErrInvalidChoice, p)
		}
		if i < 1 || i > n {
			return ResumeChoice{}, fmt.Errorf("%w: %d", ErrInvalidNumber, i)
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		rc.Indexes = append(rc.Indexes, i-1)
	}
	if len(rc.Indexes) == 0 {
		return ResumeChoice{}, ErrInvalidChoice
	}
	return rc, nil
}

// printFailures lists ledger entries the way the resume menu shows them.
func printFailures(w io.Writer, entries []*models.FailedJob, maxAttempts int) {
	fmt.Fprintln(w, "Failed downloads:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for i, fj := range entries {
		fmt.Fprintf(w, "[%d] %s\n", i+1, fj.Label())
		fmt.Fprintf(w, "    URL: %s\n", fj.URL)
		fmt.Fprintf(w, "    Reason: %s\n", fj.Reason)
		fmt.Fprintf(w, "    Attempts: %d/%d\n\n", fj.Attempts, maxAttempts)
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  - Retry all ............... [A]")
	fmt.Fprintln(w, "  - Retry specific by number  [1, 2, ...]")
	fmt.Fprintln(w, "  - Cancel .................. [C]")
}

// PrintRetryReport writes the outcome of a retry pass.
func PrintRetryReport(w io.Writer, r *ledger.RetryReport) {
	if r == nil {
		return
	}
	for _, fj := range r.Succeeded {
		fmt.Fprintf(w, "%s %s succeeded: %s\n", consts.MarkSucceeded, fj.Label(), fj.URL)
	}
	for _, fj := range r.Failed {
		fmt.Fprintf(w, "%s %s failed again: %s - %s (attempt %d)\n", consts.MarkFailed, fj.Label(), fj.URL, fj.Reason, fj.Attempts)
	}
	for _, fj := range r.Exhausted {
		fmt.Fprintf(w, "%s %s skipped: %s - %v after %d attempts\n", consts.MarkFailed, fj.Label(), fj.URL, ledger.ErrAttemptsExhausted, fj.Attempts)
	}
	fmt.Fprintf(w, "\nRetried: %d succeeded, %d failed, %d skipped.\n", len(r.Succeeded), len(r.Failed), len(r.Exhausted))
}

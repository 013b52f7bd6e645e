package downloads

import (
	"fmt"
	"io"

	"mediadl/internal/domain/consts"
	"mediadl/internal/models"
)

// ResumeOption is the main menu entry for retrying failures.
const ResumeOption = 7

// Failed returns the results that did not succeed.
func Failed(results []models.JobResult) []models.JobResult {
	var failed []models.JobResult
	for _, r := range results {
		if !r.Succeeded() {
			failed = append(failed, r)
		}
	}
	return failed
}

// PrintSummary writes the per-job outcome of a batch to w.
func PrintSummary(w io.Writer, results []models.JobResult) {
	if len(results) == 0 {
		return
	}

	if len(results) > 1 {
		fmt.Fprintln(w, "\nDownload summary:")
		for _, r := range results {
			if r.Succeeded() {
				printResult(w, r)
			}
		}
	}
	for _, r := range results {
		if !r.Succeeded() || len(results) == 1 {
			printResult(w, r)
		}
	}

	if n := len(Failed(results)); n > 0 {
		fmt.Fprintf(w, "\n%s%d/%d download(s) failed.%s Use [%d] to retry.\n",
			consts.ColorRed, n, len(results), consts.ColorReset, ResumeOption)
	}
}

func printResult(w io.Writer, r models.JobResult) {
	if r.Succeeded() {
		fmt.Fprintf(w, "%s %s succeeded: %s\n", consts.MarkSucceeded, r.Job.Describe(), r.Job.URL)
		return
	}
	fmt.Fprintf(w, "%s %s failed: %s - %v\n", consts.MarkFailed, r.Job.Describe(), r.Job.URL, r.Err)
}

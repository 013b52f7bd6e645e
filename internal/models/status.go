package models

// JobResult is the outcome of one job in a batch.
type JobResult struct {
	Job *Job
	Err error
}

// Succeeded reports whether the job finished without error.
func (r JobResult) Succeeded() bool {
	return r.Err == nil
}

// Progress is a download progress update parsed from the extraction tool's output.
type Progress struct {
	JobID   string
	Percent float64
	Line    string
}

package models

import "time"

// FailedJob is a persisted record of a job that did not complete.
type FailedJob struct {
	ID        int64
	URL       string
	Mode      Mode
	OutputDir string
	Playlist  bool
	Reason    string
	Attempts  int
	FailedAt  time.Time
}

// ToJob rebuilds a runnable job from the ledger entry.
func (f *FailedJob) ToJob() *Job {
	j := NewJob(f.URL, f.Mode, f.OutputDir, f.Playlist)
	j.LedgerID = f.ID
	return j
}

// Label returns the mode label for this entry.
func (f *FailedJob) Label() string {
	return f.Mode.Label(f.Playlist)
}

package consts

// Tables
const (
	DBFailedJobs = "failed_jobs"
)

// Failed jobs
const (
	QFailID        = "id"
	QFailURL       = "url"
	QFailMode      = "mode"
	QFailOutputDir = "output_directory"
	QFailPlaylist  = "playlist"
	QFailReason    = "reason"
	QFailAttempts  = "attempts"
	QFailFailedAt  = "failed_at"
	QFailCreatedAt = "created_at"
)

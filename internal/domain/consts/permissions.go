package consts

// Permissions for files and directories mediadl creates.
const (
	// Media directories - world readable
	PermsGenericDir  = 0o755
	PermsOutputDir   = 0o755
	PermsPlaylistDir = 0o755

	// Program files
	PermsLogFile     = 0o644
	PermsHomeProgDir = 0o700

	// User files
	PermsBatchFile = 0o644
)

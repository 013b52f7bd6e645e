package execute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"mediadl/internal/models"
)

const entriesKey = "entries"

// ResolvePlaylist runs a flat playlist dump command and decodes its JSON document.
func ResolvePlaylist(ctx context.Context, cmd *exec.Cmd) (*models.PlaylistInfo, error) {
	if cmd == nil {
		return nil, errors.New("no command to run")
	}
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("playlist resolution interrupted: %w", ctx.Err())
		}
		return nil, &DownloadError{
			Message: reasonFromOutput(stderr.String(), err),
			Err:     err,
		}
	}
	return DecodePlaylist(stdout.Bytes())
}

// DecodePlaylist decodes a flat playlist document.
//
// HasEntries is false when the document has no entries list, i.e. the URL was not a playlist.
func DecodePlaylist(data []byte) (*models.PlaylistInfo, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode playlist document: %w", err)
	}

	var info models.PlaylistInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode playlist entries: %w", err)
	}

	entries, ok := raw[entriesKey]
	info.HasEntries = ok && !bytes.Equal(bytes.TrimSpace(entries), []byte("null"))
	return &info, nil
}

package models

// PlaylistEntry is one flat entry of a resolved playlist.
type PlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaylistInfo is the flat playlist document emitted by the extraction tool.
type PlaylistInfo struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Entries []PlaylistEntry `json:"entries"`

	// HasEntries is false when the document carried no entries key (not a playlist).
	HasEntries bool `json:"-"`
}

// EntryURLs returns the URLs of entries that carry one.
func (p *PlaylistInfo) EntryURLs() []string {
	urls := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		if e.URL != "" {
			urls = append(urls, e.URL)
		}
	}
	return urls
}

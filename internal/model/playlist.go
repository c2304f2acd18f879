package model

// PlaylistEntry is one item of a flat playlist listing
type PlaylistEntry struct {
	Index    int    `json:"index"` // zero-based position in the source playlist
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url,omitempty"`
}

// PlaylistPlan is the resolved set of items a playlist download will fetch.
// It is built once per run from a metadata-only probe and owned by the
// download worker until the run ends.
type PlaylistPlan struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	URL     string           `json:"url"`
	Entries []*PlaylistEntry `json:"entries"` // only the items that will be fetched
	// SourceCount is the size of the full playlist before selection
	SourceCount int `json:"source_count"`
}

// Total returns the number of items the run will fetch
func (p *PlaylistPlan) Total() int {
	if p == nil {
		return 0
	}
	return len(p.Entries)
}

// EntryByID returns the entry with the given extractor ID
func (p *PlaylistPlan) EntryByID(id string) (*PlaylistEntry, bool) {
	if p == nil || id == "" {
		return nil, false
	}
	for _, e := range p.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Select narrows the plan to the given zero-based indices. Indices outside
// the listing are dropped; order follows the source playlist.
func (p *PlaylistPlan) Select(indices []int) {
	if p == nil {
		return
	}
	wanted := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		wanted[idx] = struct{}{}
	}
	selected := make([]*PlaylistEntry, 0, len(indices))
	for _, e := range p.Entries {
		if _, ok := wanted[e.Index]; ok {
			selected = append(selected, e)
		}
	}
	p.Entries = selected
}

// PlaylistProgress is the playlist-level signal emitted as items complete
type PlaylistProgress struct {
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	CurrentTitle string `json:"current_title"`
	Active       bool   `json:"active"`
}

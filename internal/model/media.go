package model

// MediaInfo is what the UI shows after fetching a URL
type MediaInfo struct {
	Title           string           `json:"title"`
	Channel         string           `json:"channel"`
	Duration        string           `json:"duration"`
	Thumbnail       string           `json:"thumbnail"`
	Qualities       []string         `json:"qualities"`
	IsPlaylist      bool             `json:"is_playlist"`
	PlaylistTitle   string           `json:"playlist_title"`
	PlaylistCount   int              `json:"playlist_count"`
	PlaylistEntries []*PlaylistEntry `json:"playlist_entries,omitempty"`
	Site            string           `json:"site"`
	Extractor       string           `json:"extractor"`
}

// SiteInfo is the result of matching a URL against known sites
type SiteInfo struct {
	Detected bool   `json:"detected"`
	Site     string `json:"site"`
	Domain   string `json:"domain"`
}

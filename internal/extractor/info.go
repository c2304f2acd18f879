package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Info is the subset of the engine's JSON metadata this application reads
type Info struct {
	Type          string   `json:"_type"`
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Channel       string   `json:"channel"`
	Uploader      string   `json:"uploader"`
	Duration      float64  `json:"duration"`
	Thumbnail     string   `json:"thumbnail"`
	WebpageURL    string   `json:"webpage_url"`
	URL           string   `json:"url"`
	Extractor     string   `json:"extractor"`
	PlaylistCount int      `json:"playlist_count"`
	Formats       []Format `json:"formats"`
	Entries       []*Info  `json:"entries"`
}

// Format describes one downloadable stream
type Format struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	Height   int    `json:"height"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
}

// IsPlaylist reports whether the probe resolved to a playlist
func (i *Info) IsPlaylist() bool {
	return i != nil && (i.Type == "playlist" || i.Type == "multi_video")
}

// HasVideo reports whether the format carries a video stream
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// EntryURL returns the best URL to address a playlist entry directly
func (i *Info) EntryURL() string {
	if i.WebpageURL != "" {
		return i.WebpageURL
	}
	return i.URL
}

// DecodeInfo parses a single JSON document printed by the engine. Warning
// lines before the document are skipped.
func DecodeInfo(raw string) (*Info, error) {
	raw = strings.TrimSpace(raw)
	if start := strings.IndexByte(raw, '{'); start > 0 {
		raw = raw[start:]
	}
	if raw == "" {
		return nil, fmt.Errorf("empty metadata output")
	}
	var info Info
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &info, nil
}

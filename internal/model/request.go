package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects whether a download keeps video or extracts audio
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// PlaylistPolicy controls how playlist URLs are expanded
type PlaylistPolicy string

const (
	PlaylistSingle PlaylistPolicy = "single"
	PlaylistAll    PlaylistPolicy = "all"
	PlaylistSelect PlaylistPolicy = "select"
)

// QualityBest is the quality label that disables the height ceiling
const QualityBest = "Best"

// DownloadRequest is one user-initiated download. It is consumed once by the
// orchestrator and never persisted.
type DownloadRequest struct {
	URL             string         `json:"url"`
	Mode            Mode           `json:"mode"`
	Quality         string         `json:"quality"`
	Playlist        PlaylistPolicy `json:"playlist_mode"`
	SelectedIndices []int          `json:"selected_indices,omitempty"` // zero-based, as shown in the UI
}

// Normalize fills defaults the UI is allowed to omit.
func (r *DownloadRequest) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
	if r.Mode == "" {
		r.Mode = ModeVideo
	}
	if strings.TrimSpace(r.Quality) == "" {
		r.Quality = QualityBest
	}
	if r.Playlist == "" {
		r.Playlist = PlaylistSingle
	}
}

// Validate reports user-input errors wrapped in ErrInvalidRequest.
func (r *DownloadRequest) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	switch r.Mode {
	case ModeVideo, ModeAudio:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, r.Mode)
	}
	switch r.Playlist {
	case PlaylistSingle, PlaylistAll:
	case PlaylistSelect:
		if len(r.SelectedIndices) == 0 {
			return fmt.Errorf("%w: no playlist items selected", ErrInvalidRequest)
		}
		for _, idx := range r.SelectedIndices {
			if idx < 0 {
				return fmt.Errorf("%w: negative playlist index %d", ErrInvalidRequest, idx)
			}
		}
	default:
		return fmt.Errorf("%w: unknown playlist mode %q", ErrInvalidRequest, r.Playlist)
	}
	return nil
}

// IsPlaylist returns true when the request expands a playlist
func (r *DownloadRequest) IsPlaylist() bool {
	return r.Playlist == PlaylistAll || r.Playlist == PlaylistSelect
}

// DownloadTask is the observable state of one download run
type DownloadTask struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Mode       Mode           `json:"mode"`
	Quality    string         `json:"quality"`
	Playlist   PlaylistPolicy `json:"playlist_mode"`
	Status     TaskStatus     `json:"status"`
	Percent    float64        `json:"percent"` // 0 to 100, one decimal
	Speed      string         `json:"speed,omitempty"`
	ETA        string         `json:"eta,omitempty"`
	Size       string         `json:"size,omitempty"`
	Title      string         `json:"title,omitempty"`
	TargetDir  string         `json:"target_dir,omitempty"`
	LastError  string         `json:"last_error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at,omitempty"`
}

// GetDisplayTitle returns the title when known, otherwise the URL
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}
	return dt.URL
}

package model

import (
	"errors"
	"testing"
)

func TestDownloadRequest_Normalize(t *testing.T) {
	req := DownloadRequest{URL: "  https://youtu.be/abc  "}
	req.Normalize()

	if req.URL != "https://youtu.be/abc" {
		t.Errorf("URL = %q, expected trimmed URL", req.URL)
	}
	if req.Mode != ModeVideo {
		t.Errorf("Mode = %s, expected %s", req.Mode, ModeVideo)
	}
	if req.Quality != QualityBest {
		t.Errorf("Quality = %s, expected %s", req.Quality, QualityBest)
	}
	if req.Playlist != PlaylistSingle {
		t.Errorf("Playlist = %s, expected %s", req.Playlist, PlaylistSingle)
	}
}

func TestDownloadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     DownloadRequest
		wantErr bool
	}{
		{"valid single", DownloadRequest{URL: "u", Mode: ModeVideo, Playlist: PlaylistSingle}, false},
		{"valid audio all", DownloadRequest{URL: "u", Mode: ModeAudio, Playlist: PlaylistAll}, false},
		{"valid select", DownloadRequest{URL: "u", Mode: ModeVideo, Playlist: PlaylistSelect, SelectedIndices: []int{0, 2}}, false},
		{"empty url", DownloadRequest{Mode: ModeVideo, Playlist: PlaylistSingle}, true},
		{"bad mode", DownloadRequest{URL: "u", Mode: "gif", Playlist: PlaylistSingle}, true},
		{"bad playlist", DownloadRequest{URL: "u", Mode: ModeVideo, Playlist: "some"}, true},
		{"select without indices", DownloadRequest{URL: "u", Mode: ModeVideo, Playlist: PlaylistSelect}, true},
		{"negative index", DownloadRequest{URL: "u", Mode: ModeVideo, Playlist: PlaylistSelect, SelectedIndices: []int{-1}}, true},
	}

	for _, test := range tests {
		err := test.req.Validate()
		if (err != nil) != test.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", test.name, err, test.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: expected ErrInvalidRequest, got %v", test.name, err)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		url      string
		expected string
	}{
		{"Video Title", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"https://example.com", "https://youtube.com/watch?v=456", "https://youtube.com/watch?v=456"},
	}

	for _, test := range tests {
		task := &DownloadTask{Title: test.title, URL: test.url}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', url='%s' = '%s', expected '%s'",
				test.title, test.url, result, test.expected)
		}
	}
}

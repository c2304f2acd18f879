package media

import (
	"testing"

	"github.com/ytget/video-downloader/internal/model"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.youtube.com/playlist?list=PL123", "PL123"},
		{"https://www.youtube.com/watch?v=abc&list=PL456&index=2", "PL456"},
		{"https://www.youtube.com/watch?v=abc", ""},
	}

	for _, test := range tests {
		if got := ExtractPlaylistID(test.url); got != test.expected {
			t.Errorf("ExtractPlaylistID(%q) = %q, expected %q", test.url, got, test.expected)
		}
	}
}

func TestGuessPlaylistTitle(t *testing.T) {
	entries := func(titles ...string) []*model.PlaylistEntry {
		out := make([]*model.PlaylistEntry, 0, len(titles))
		for i, title := range titles {
			out = append(out, &model.PlaylistEntry{Index: i, Title: title})
		}
		return out
	}

	tests := []struct {
		entries  []*model.PlaylistEntry
		expected string
	}{
		{nil, DefaultPlaylistName},
		{entries("Only One"), "Only One Playlist"},
		{entries("Go Tutorial Part 1", "Go Tutorial Part 2"), "Go Tutorial Part Playlist"},
		{entries("Alpha", "Beta"), "Alpha Playlist"},
	}

	for _, test := range tests {
		if got := guessPlaylistTitle(test.entries); got != test.expected {
			t.Errorf("guessPlaylistTitle() = %q, expected %q", got, test.expected)
		}
	}
}

package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/video-downloader/internal/model"
)

// YouTube playlist lookup constants
const (
	DefaultListTimeout      = 60 * time.Second
	PlaylistParam           = "list="
	ParamSeparator          = "&"
	DefaultPlaylistName     = "Unknown Playlist"
	PlaylistSuffix          = " Playlist"
	MinPrefixLength         = 10
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistLister resolves playlist entries without the main engine
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, rawURL string) (*model.PlaylistPlan, error)
}

// YouTubeLister lists YouTube playlists through the ytdlp/v2 client
type YouTubeLister struct {
	timeout time.Duration
}

// NewYouTubeLister creates a lister with the default timeout
func NewYouTubeLister() *YouTubeLister {
	return &YouTubeLister{timeout: DefaultListTimeout}
}

// ListPlaylist fetches every entry of the playlist named by the list= parameter
func (l *YouTubeLister) ListPlaylist(ctx context.Context, rawURL string) (*model.PlaylistPlan, error) {
	playlistID := ExtractPlaylistID(rawURL)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: no list parameter in %s", model.ErrNotPlaylist, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := make([]*model.PlaylistEntry, 0, len(items))
	for i, it := range items {
		entries = append(entries, &model.PlaylistEntry{
			Index:    i,
			ID:       it.VideoID,
			Title:    it.Title,
			Duration: UnknownDuration,
			URL:      fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}

	return &model.PlaylistPlan{
		ID:          playlistID,
		Title:       guessPlaylistTitle(entries),
		URL:         rawURL,
		Entries:     entries,
		SourceCount: len(entries),
	}, nil
}

// ExtractPlaylistID returns the value of the list= query parameter
func ExtractPlaylistID(rawURL string) string {
	_, after, found := strings.Cut(rawURL, PlaylistParam)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, ParamSeparator)
	return id
}

// guessPlaylistTitle derives a name from the entries when the listing
// carries no playlist title.
func guessPlaylistTitle(entries []*model.PlaylistEntry) string {
	if len(entries) == 0 {
		return DefaultPlaylistName
	}
	if len(entries) > 1 {
		prefix := commonPrefix(entries[0].Title, entries[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return entries[0].Title + PlaylistSuffix
}

func commonPrefix(s1, s2 string) string {
	r1, r2 := []rune(s1), []rune(s2)
	n := min(len(r1), len(r2))
	for i := 0; i < n; i++ {
		if r1[i] != r2[i] {
			return string(r1[:i])
		}
	}
	return string(r1[:n])
}

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ytget/video-downloader/internal/extractor"
	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

// Fallback for missing titles and channels
const UnknownValue = "Unknown"

// Fetcher reads metadata through the extraction engine
type Fetcher struct {
	engine  extractor.Engine
	lister  PlaylistLister
	cookies func() string
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher. lister and cookies may be nil.
func NewFetcher(engine extractor.Engine, lister PlaylistLister, cookies func() string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		engine:  engine,
		lister:  lister,
		cookies: cookies,
		logger:  logger,
	}
}

// usableCookies returns path only while the file still exists on disk
func usableCookies(path string) string {
	if platform.FileExists(path) {
		return path
	}
	return ""
}

func (f *Fetcher) configuredCookies() string {
	if f.cookies == nil {
		return ""
	}
	return usableCookies(f.cookies())
}

// FetchInfo runs a flat metadata probe and shapes it for the UI
func (f *Fetcher) FetchInfo(ctx context.Context, rawURL string) (*model.MediaInfo, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", model.ErrInvalidRequest)
	}

	f.logger.Info("fetching info", "url", rawURL)
	info, err := f.engine.Probe(ctx, extractor.ProbeOptions{
		URL:         rawURL,
		Flat:        true,
		CookiesFile: f.configuredCookies(),
	})
	if err != nil {
		return nil, err
	}

	site := DetectSite(rawURL)
	result := &model.MediaInfo{
		Title:     firstNonEmpty(info.Title, UnknownValue),
		Channel:   firstNonEmpty(info.Channel, info.Uploader, UnknownValue),
		Duration:  FormatDuration(info.Duration),
		Thumbnail: info.Thumbnail,
		Qualities: Qualities(info.Formats),
		Site:      site.Site,
		Extractor: firstNonEmpty(info.Extractor, UnknownValue),
	}

	if info.IsPlaylist() {
		entries := entriesFrom(info)
		result.IsPlaylist = true
		result.PlaylistTitle = info.Title
		result.PlaylistCount = len(entries)
		if result.PlaylistCount == 0 {
			result.PlaylistCount = info.PlaylistCount
		}
		result.PlaylistEntries = entries
	}

	f.logger.Info("info fetched", "site", result.Site, "title", result.Title, "playlist", result.IsPlaylist)
	return result, nil
}

// Plan resolves the playlist items a download will fetch. For the select
// policy, zero-based indices outside the entry list are dropped.
func (f *Fetcher) Plan(ctx context.Context, rawURL string, policy model.PlaylistPolicy, indices []int, cookies string) (*model.PlaylistPlan, error) {
	if policy != model.PlaylistAll && policy != model.PlaylistSelect {
		return nil, fmt.Errorf("%w: playlist plan needs policy all or select, got %q", model.ErrInvalidRequest, policy)
	}

	plan, err := f.probePlan(ctx, rawURL, usableCookies(cookies))
	if err != nil {
		if f.lister == nil || ExtractPlaylistID(rawURL) == "" {
			return nil, err
		}
		f.logger.Warn("playlist probe failed, trying fallback lister", "url", rawURL, "err", err)
		fallback, listErr := f.lister.ListPlaylist(ctx, rawURL)
		if listErr != nil {
			return nil, errors.Join(err, listErr)
		}
		plan = fallback
	}

	if policy == model.PlaylistSelect {
		plan.Select(indices)
	}
	return plan, nil
}

func (f *Fetcher) probePlan(ctx context.Context, rawURL, cookies string) (*model.PlaylistPlan, error) {
	info, err := f.engine.Probe(ctx, extractor.ProbeOptions{
		URL:         rawURL,
		Flat:        true,
		CookiesFile: cookies,
	})
	if err != nil {
		return nil, err
	}
	if !info.IsPlaylist() {
		return nil, fmt.Errorf("%w: %s", model.ErrNotPlaylist, rawURL)
	}

	entries := entriesFrom(info)
	return &model.PlaylistPlan{
		ID:          info.ID,
		Title:       firstNonEmpty(info.Title, guessPlaylistTitle(entries)),
		URL:         rawURL,
		Entries:     entries,
		SourceCount: len(entries),
	}, nil
}

func entriesFrom(info *extractor.Info) []*model.PlaylistEntry {
	entries := make([]*model.PlaylistEntry, 0, len(info.Entries))
	for i, e := range info.Entries {
		// unavailable items come back as null but still hold their position
		if e == nil {
			continue
		}
		entries = append(entries, &model.PlaylistEntry{
			Index:    i,
			ID:       e.ID,
			Title:    firstNonEmpty(e.Title, UnknownValue),
			Duration: FormatDuration(e.Duration),
			URL:      e.EntryURL(),
		})
	}
	return entries
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

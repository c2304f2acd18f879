package download

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ytget/video-downloader/internal/extractor"
	"github.com/ytget/video-downloader/internal/model"
)

// Format selectors
const (
	// best audio-only stream, else the cheapest combined stream
	AudioSelector     = "bestaudio/worst"
	BestVideoSelector = "bestvideo+bestaudio/best"
)

// Output settings
const (
	MergeFormat  = "mp4"
	AudioFormat  = "mp3"
	AudioQuality = "320K"
)

// Output templates. Titles are capped at 150 bytes.
const (
	TitleTemplate         = "%(title).150B.%(ext)s"
	PlaylistIndexTemplate = "%(playlist_index)03d - "
	itemSelectorSeparator = ","
)

// ParseHeight extracts the leading digit run of a quality label such as
// "1080p" or "2160p (4K)".
func ParseHeight(quality string) (int, bool) {
	quality = strings.TrimSpace(quality)
	end := 0
	for end < len(quality) && unicode.IsDigit(rune(quality[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	height, err := strconv.Atoi(quality[:end])
	if err != nil || height <= 0 {
		return 0, false
	}
	return height, true
}

// BuildFormat derives the engine format selector for a mode and quality
func BuildFormat(mode model.Mode, quality string) string {
	if mode == model.ModeAudio {
		return AudioSelector
	}
	height, ok := ParseHeight(quality)
	if !ok {
		return BestVideoSelector
	}
	h := strconv.Itoa(height)
	return "bestvideo[height<=" + h + "]+bestaudio/best[height<=" + h + "]/best"
}

// OutputTemplate joins dir with the title template. Playlist runs prefix
// the item position so files sort in playlist order.
func OutputTemplate(dir string, playlist bool) string {
	name := TitleTemplate
	if playlist {
		name = PlaylistIndexTemplate + TitleTemplate
	}
	return filepath.Join(dir, name)
}

// PlaylistItems converts zero-based indices to the engine's one-based
// item selector. Negative and duplicate indices are skipped.
func PlaylistItems(indices []int) string {
	seen := make(map[int]struct{}, len(indices))
	items := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 {
			continue
		}
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		items = append(items, idx+1)
	}
	sort.Ints(items)

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = strconv.Itoa(item)
	}
	return strings.Join(parts, itemSelectorSeparator)
}

// Job is everything BuildOptions needs to configure one engine run
type Job struct {
	Request     model.DownloadRequest
	TargetDir   string
	Plan        *model.PlaylistPlan
	CookiesFile string
	FFmpegDir   string
	Tuning      model.Tuning
}

// selectedIndices prefers the resolved plan, which already dropped
// indices that do not exist.
func (j Job) selectedIndices() []int {
	if j.Plan == nil {
		return j.Request.SelectedIndices
	}
	indices := make([]int, 0, len(j.Plan.Entries))
	for _, e := range j.Plan.Entries {
		indices = append(indices, e.Index)
	}
	return indices
}

// BuildOptions derives the full engine configuration for a job
func BuildOptions(job Job) extractor.DownloadOptions {
	req := job.Request
	opts := extractor.DownloadOptions{
		URL:                 req.URL,
		OutputTemplate:      OutputTemplate(job.TargetDir, req.IsPlaylist()),
		Format:              BuildFormat(req.Mode, req.Quality),
		CookiesFile:         job.CookiesFile,
		FFmpegLocation:      job.FFmpegDir,
		ConcurrentFragments: job.Tuning.ConcurrentFragments,
		HTTPChunkSize:       job.Tuning.HTTPChunkSize,
		Retries:             job.Tuning.Retries,
		FragmentRetries:     job.Tuning.FragmentRetries,
		WindowsFilenames:    true,
	}

	if req.Mode == model.ModeAudio {
		opts.ExtractAudio = true
		opts.AudioFormat = AudioFormat
		opts.AudioQuality = AudioQuality
	} else {
		opts.MergeFormat = MergeFormat
	}

	switch req.Playlist {
	case model.PlaylistSingle:
		opts.NoPlaylist = true
	case model.PlaylistSelect:
		opts.PlaylistItems = PlaylistItems(job.selectedIndices())
	}
	return opts
}

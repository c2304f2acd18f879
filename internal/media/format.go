package media

import (
	"fmt"
	"sort"

	"github.com/ytget/video-downloader/internal/extractor"
	"github.com/ytget/video-downloader/internal/model"
)

// Duration placeholder when the engine reports none
const UnknownDuration = "--:--"

// DefaultQualities is offered when the engine lists no video heights
var DefaultQualities = []string{model.QualityBest, "1080p", "720p", "480p", "360p"}

// FormatDuration renders seconds as H:MM:SS or M:SS
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return UnknownDuration
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// QualityLabel names a height the way the quality picker shows it
func QualityLabel(height int) string {
	switch {
	case height >= 2160:
		return fmt.Sprintf("%dp (4K)", height)
	case height >= 1440:
		return fmt.Sprintf("%dp (2K)", height)
	default:
		return fmt.Sprintf("%dp", height)
	}
}

// Qualities lists "Best" followed by every distinct video height,
// highest first.
func Qualities(formats []extractor.Format) []string {
	seen := make(map[int]struct{})
	heights := make([]int, 0, len(formats))
	for _, f := range formats {
		if !f.HasVideo() || f.Height <= 0 {
			continue
		}
		if _, ok := seen[f.Height]; ok {
			continue
		}
		seen[f.Height] = struct{}{}
		heights = append(heights, f.Height)
	}
	if len(heights) == 0 {
		return append([]string(nil), DefaultQualities...)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	qualities := make([]string, 0, len(heights)+1)
	qualities = append(qualities, model.QualityBest)
	for _, h := range heights {
		qualities = append(qualities, QualityLabel(h))
	}
	return qualities
}

package progress

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Placeholder is shown for any value that is not known
const Placeholder = "-"

const (
	kibibyte = 1024.0
	mebibyte = 1024.0 * 1024.0
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes terminal color and cursor sequences and trims spaces
func StripANSI(s string) string {
	return strings.TrimSpace(ansiEscape.ReplaceAllString(s, ""))
}

// Percent returns downloaded/total as a percentage rounded to one decimal
// and clamped to [0, 100]. A non-positive total yields 0.
func Percent(downloaded, total int64) float64 {
	if total <= 0 || downloaded <= 0 {
		return 0
	}
	p := float64(downloaded) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return math.Round(p*10) / 10
}

// FormatSpeed renders bytes per second with a binary unit
func FormatSpeed(bytesPerSec float64) string {
	switch {
	case bytesPerSec <= 0 || math.IsNaN(bytesPerSec) || math.IsInf(bytesPerSec, 0):
		return Placeholder
	case bytesPerSec >= mebibyte:
		return fmt.Sprintf("%.2f MiB/s", bytesPerSec/mebibyte)
	case bytesPerSec >= kibibyte:
		return fmt.Sprintf("%.2f KiB/s", bytesPerSec/kibibyte)
	default:
		return fmt.Sprintf("%.0f B/s", bytesPerSec)
	}
}

// FormatETA renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatETA(seconds int) string {
	if seconds < 0 {
		return Placeholder
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatSize prefers the known total, then the estimate (prefixed "~"),
// then the downloaded count as a lower bound (suffixed "+").
func FormatSize(downloaded, total, estimate int64) string {
	switch {
	case total > 0:
		return humanize.IBytes(uint64(total))
	case estimate > 0:
		return "~" + humanize.IBytes(uint64(estimate))
	case downloaded > 0:
		return humanize.IBytes(uint64(downloaded)) + "+"
	default:
		return Placeholder
	}
}

// preferText returns the cleaned pre-formatted value when the engine
// supplied one, otherwise the computed fallback.
func preferText(formatted, fallback string) string {
	if clean := StripANSI(formatted); clean != "" {
		return clean
	}
	return StripANSI(fallback)
}

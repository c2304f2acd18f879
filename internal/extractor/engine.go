package extractor

import (
	"context"
	"time"

	"github.com/ytget/video-downloader/internal/model"
)

// DefaultProgressInterval is how often the engine reports progress
const DefaultProgressInterval = 250 * time.Millisecond

// DownloadOptions is a fully derived configuration for one engine run
type DownloadOptions struct {
	URL            string
	OutputTemplate string
	Format         string
	MergeFormat    string

	ExtractAudio bool
	AudioFormat  string
	AudioQuality string

	NoPlaylist    bool
	PlaylistItems string // one-based, comma separated

	CookiesFile    string
	FFmpegLocation string

	ConcurrentFragments int
	HTTPChunkSize       string
	Retries             int
	FragmentRetries     int
	WindowsFilenames    bool

	ProgressInterval time.Duration
}

// ProbeOptions configures a metadata-only run
type ProbeOptions struct {
	URL         string
	Flat        bool
	NoPlaylist  bool
	CookiesFile string
}

// ProgressHandler receives every progress tick. Returning a non-nil error
// stops the download; returning model.ErrCancelled makes Download report
// model.ErrCancelled.
type ProgressHandler func(model.ProgressSample) error

// Engine runs downloads and metadata probes
type Engine interface {
	Download(ctx context.Context, opts DownloadOptions, onProgress ProgressHandler) error
	Probe(ctx context.Context, opts ProbeOptions) (*Info, error)
}

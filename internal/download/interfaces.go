package download

import (
	"context"

	"github.com/ytget/video-downloader/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.Event))
	Start(req model.DownloadRequest) (*model.DownloadTask, error)
	Cancel() error
	Current() (*model.DownloadTask, bool)
}

// Planner resolves the playlist items a request will fetch
type Planner interface {
	Plan(ctx context.Context, rawURL string, policy model.PlaylistPolicy, indices []int, cookies string) (*model.PlaylistPlan, error)
}

// FFmpegLocator reports where ffmpeg lives. An empty dir with ok=true means
// it is reachable through PATH.
type FFmpegLocator interface {
	Locate() (dir string, ok bool)
}

// Settings is the part of the configuration store a download reads
type Settings interface {
	GetDownloadFolder() string
	GetCookiesFile() string
	GetTuning() model.Tuning
}

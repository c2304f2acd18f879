package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/video-downloader/internal/model"
)

// YTDLP runs the yt-dlp executable through go-ytdlp
type YTDLP struct {
	executable string
	logger     *slog.Logger
}

// NewYTDLP creates an engine. An empty executable lets go-ytdlp resolve
// the binary itself (cache directory or PATH).
func NewYTDLP(executable string, logger *slog.Logger) *YTDLP {
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLP{executable: executable, logger: logger}
}

// Install makes sure a yt-dlp binary is available and returns its path
func Install(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return resolved.Executable, nil
}

func (y *YTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if y.executable != "" {
		cmd.SetExecutable(y.executable)
	}
	return cmd
}

// Download runs one download and blocks until it finishes
func (y *YTDLP) Download(ctx context.Context, opts DownloadOptions, onProgress ProgressHandler) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var stopErr atomic.Value
	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	cmd := y.buildDownload(opts)
	cmd.ProgressFunc(interval, func(update ytdlp.ProgressUpdate) {
		if onProgress == nil || stopErr.Load() != nil {
			return
		}
		if err := onProgress(sampleFromUpdate(update, time.Now())); err != nil {
			stopErr.Store(err)
			stop()
		}
	})

	y.logger.Debug("starting engine", "url", opts.URL, "format", opts.Format, "items", opts.PlaylistItems)
	_, err := cmd.Run(runCtx, opts.URL)

	if v := stopErr.Load(); v != nil {
		return v.(error)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("download failed: %w", err)
	}
	return nil
}

func (y *YTDLP) buildDownload(opts DownloadOptions) *ytdlp.Command {
	cmd := y.command().
		NoWarnings().
		Output(opts.OutputTemplate).
		Format(opts.Format)

	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.ExtractAudio {
		cmd.ExtractAudio()
		if opts.AudioFormat != "" {
			cmd.AudioFormat(opts.AudioFormat)
		}
		if opts.AudioQuality != "" {
			cmd.AudioQuality(opts.AudioQuality)
		}
	}

	switch {
	case opts.PlaylistItems != "":
		cmd.YesPlaylist().PlaylistItems(opts.PlaylistItems)
	case opts.NoPlaylist:
		cmd.NoPlaylist()
	default:
		cmd.YesPlaylist()
	}

	if opts.CookiesFile != "" {
		cmd.Cookies(opts.CookiesFile)
	}
	if opts.FFmpegLocation != "" {
		cmd.FFmpegLocation(opts.FFmpegLocation)
	}
	if opts.ConcurrentFragments > 0 {
		cmd.ConcurrentFragments(opts.ConcurrentFragments)
	}
	if opts.HTTPChunkSize != "" {
		cmd.HTTPChunkSize(opts.HTTPChunkSize)
	}
	if opts.Retries > 0 {
		cmd.Retries(strconv.Itoa(opts.Retries))
	}
	if opts.FragmentRetries > 0 {
		cmd.FragmentRetries(strconv.Itoa(opts.FragmentRetries))
	}
	if opts.WindowsFilenames {
		cmd.WindowsFilenames()
	}
	return cmd
}

// Probe runs a metadata-only extraction and decodes its JSON output
func (y *YTDLP) Probe(ctx context.Context, opts ProbeOptions) (*Info, error) {
	cmd := y.command().
		NoWarnings().
		SkipDownload().
		DumpSingleJSON()
	if opts.Flat {
		cmd.FlatPlaylist()
	}
	if opts.NoPlaylist {
		cmd.NoPlaylist()
	}
	if opts.CookiesFile != "" {
		cmd.Cookies(opts.CookiesFile)
	}

	result, err := cmd.Run(ctx, opts.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("probe failed: %w", err)
	}
	if result == nil {
		return nil, errors.New("probe returned no output")
	}
	return DecodeInfo(result.Stdout)
}

// sampleFromUpdate converts a go-ytdlp progress update into the engine
// neutral sample the normalizer consumes.
func sampleFromUpdate(update ytdlp.ProgressUpdate, now time.Time) model.ProgressSample {
	sample := model.ProgressSample{
		Status:          sampleStatus(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		ETASec:          -1,
		Filename:        update.Filename,
	}

	// go-ytdlp folds total_bytes_estimate into TotalBytes. Totals of a
	// fragmented download are estimates until the item finishes.
	total := int64(update.TotalBytes)
	fragmented := update.FragmentCount > 0
	switch {
	case total > 0 && fragmented && update.Status != ytdlp.ProgressStatusFinished:
		sample.TotalBytesEstimate = total
	case total > 0:
		sample.TotalBytes = total
	case fragmented && update.FragmentIndex > 0 && sample.DownloadedBytes > 0:
		sample.TotalBytesEstimate = sample.DownloadedBytes * int64(update.FragmentCount) / int64(update.FragmentIndex)
	}

	if !update.Started.IsZero() {
		if elapsed := now.Sub(update.Started).Seconds(); elapsed > 0 {
			sample.Speed = float64(update.DownloadedBytes) / elapsed
		}
	}
	if eta := update.ETA(); eta > 0 {
		sample.ETASec = int(eta.Seconds())
	}

	if update.Info != nil {
		sample.ItemID = update.Info.ID
		if update.Info.Title != nil {
			sample.Title = *update.Info.Title
		}
	}
	return sample
}

func sampleStatus(status ytdlp.ProgressStatus) model.SampleStatus {
	switch status {
	case ytdlp.ProgressStatusStarting, ytdlp.ProgressStatusDownloading:
		return model.SampleDownloading
	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		return model.SampleFinished
	case ytdlp.ProgressStatusError:
		return model.SampleError
	default:
		return model.SampleUnknown
	}
}

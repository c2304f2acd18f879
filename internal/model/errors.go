package model

import "errors"

// Sentinel errors shared by services and the UI bridge.
var (
	// ErrCancelled is returned from a progress callback once the user asked to stop.
	ErrCancelled = errors.New("download cancelled")
	// ErrDownloadInProgress rejects a second download while one is active.
	ErrDownloadInProgress = errors.New("a download is already in progress")
	// ErrNoActiveDownload is returned by Cancel when nothing is running.
	ErrNoActiveDownload = errors.New("no active download")
	// ErrInvalidRequest wraps user-input validation failures.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrFFmpegMissing means a merge or transcode was requested without FFmpeg.
	ErrFFmpegMissing = errors.New("ffmpeg is not installed")
	// ErrNotPlaylist is returned when a playlist probe resolves to a single item.
	ErrNotPlaylist = errors.New("url does not resolve to a playlist")
	// ErrUnsupportedPlatform is returned by installers without a source for this OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrNoUpdateAsset means the release has no asset for this platform.
	ErrNoUpdateAsset = errors.New("release has no asset for this platform")
)

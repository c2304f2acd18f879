package ffmpeg

// Package ffmpeg finds or installs the ffmpeg binaries the extraction
// engine needs for merging and audio transcoding.

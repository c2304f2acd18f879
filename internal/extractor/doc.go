package extractor

// Package extractor wraps the external media extraction engine (yt-dlp)
// behind a small interface. Downloads report progress through a handler
// whose returned error stops the running process; probes return decoded
// metadata.

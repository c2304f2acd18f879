package download

// Package download implements the download pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It admits one job at a time, derives
// the engine options, supervises the run from a worker goroutine and
// reports exactly one terminal event per job.

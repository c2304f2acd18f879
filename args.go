package main

import (
	"github.com/alexflint/go-arg"

	"github.com/ytget/video-downloader/internal/config"
)

// ApplyUpdateCmd is run by the downloaded release to replace the
// installed executable once the old process has exited.
type ApplyUpdateCmd struct {
	Source string `arg:"--source,required" help:"Downloaded executable."`
	Target string `arg:"--target,required" help:"Executable to replace and relaunch."`
}

// Args are the command-line options
type Args struct {
	ApplyUpdate *ApplyUpdateCmd `arg:"subcommand:apply-update" help:"Replace an installed executable with a downloaded update."`

	Config    string `arg:"--config" help:"Path to config.json. Defaults to the per-user app directory."`
	Port      int    `arg:"--port" default:"0" help:"Local port for the UI. 0 picks a free one."`
	Web       string `arg:"--web" help:"Directory with the UI page, served at /."`
	NoBrowser bool   `arg:"--no-browser" help:"Do not open a window; print the UI address instead."`
	LogLevel  string `arg:"--log-level" default:"info" help:"debug, info, warn or error."`
	YTDLP     string `arg:"--ytdlp" help:"Path to a yt-dlp executable. Installed automatically when empty."`
}

func (Args) Version() string {
	return config.AppName + " " + version
}

func (Args) Description() string {
	return "Downloads video and audio from popular sites through a local browser UI."
}

func parseArgs() *Args {
	var args Args
	arg.MustParse(&args)
	return &args
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/ytget/video-downloader/internal/bridge"
	"github.com/ytget/video-downloader/internal/browser"
	"github.com/ytget/video-downloader/internal/config"
	"github.com/ytget/video-downloader/internal/download"
	"github.com/ytget/video-downloader/internal/extractor"
	"github.com/ytget/video-downloader/internal/ffmpeg"
	"github.com/ytget/video-downloader/internal/media"
	"github.com/ytget/video-downloader/internal/platform"
	"github.com/ytget/video-downloader/internal/update"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// App directories below the per-user data dir
const (
	FFmpegDirName = "ffmpeg"
	UpdateDirName = "updates"
)

// A browser that exits sooner than this handed the window to an already
// running instance, so its exit says nothing about the window.
const windowOwnedAfter = 5 * time.Second

func main() {
	args := parseArgs()
	logger := newLogger(args.LogLevel)
	slog.SetDefault(logger)

	if args.ApplyUpdate != nil {
		os.Exit(runApplyUpdate(args.ApplyUpdate, logger))
	}

	if err := run(args, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// newLogger builds a text handler for terminals and JSON otherwise
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func runApplyUpdate(cmd *ApplyUpdateCmd, logger *slog.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), update.DefaultReplaceTimeout)
	defer cancel()

	logger.Info("applying update", "source", cmd.Source, "target", cmd.Target)
	if err := update.ReplaceAndRelaunch(ctx, cmd.Source, cmd.Target, update.DefaultReplaceInterval, update.Launch, logger); err != nil {
		logger.Error("update failed", "err", err)
		return 1
	}
	return 0
}

func run(args *Args, logger *slog.Logger) error {
	logger.Info("starting", "app", config.AppName, "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDir, err := config.AppDataDir()
	if err != nil {
		return err
	}
	configPath := args.Config
	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	settings, err := config.Load(configPath)
	if err != nil {
		logger.Warn("config unreadable, using defaults", "path", configPath, "err", err)
	}
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadFolder()); err != nil {
		logger.Warn("failed to ensure download folder", "dir", settings.GetDownloadFolder(), "err", err)
	}

	updateDir := filepath.Join(appDir, UpdateDirName)
	removeStaleUpdates(updateDir, logger)
	if err := platform.CreateDirectoryIfNotExists(updateDir); err != nil {
		return fmt.Errorf("create update dir: %w", err)
	}

	engine := extractor.NewYTDLP(resolveYTDLP(ctx, args.YTDLP, logger), logger)
	fetcher := media.NewFetcher(engine, media.NewYouTubeLister(), settings.GetCookiesFile, logger)
	installer := ffmpeg.NewInstaller(filepath.Join(appDir, FFmpegDirName), settings.GetFFmpegURL(), logger)

	downloads := download.NewService(engine, fetcher, installer, settings, logger)
	defer downloads.Close()

	server := bridge.NewServer(ctx, bridge.Options{
		AppName:    config.AppName,
		Version:    version,
		WebRoot:    args.Web,
		UpdateDir:  updateDir,
		Config:     settings,
		Downloads:  downloads,
		Media:      fetcher,
		FFmpeg:     installer,
		Updates:    update.NewChecker(version, logger),
		Applier:    update.NewApplier(version, logger),
		OpenFolder: platform.OpenFolder,
		OnExit:     stop,
		Logger:     logger,
	})

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", args.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	url := "http://" + ln.Addr().String() + "/"

	if !args.NoBrowser {
		openWindow(ctx, url, stop, logger)
	} else {
		fmt.Printf("%s v%s listening on %s\n", config.AppName, version, url)
	}

	return server.Serve(ctx, ln)
}

// resolveYTDLP prefers an explicit path, then lets go-ytdlp install or
// find its binary. An empty result leaves lookup to PATH.
func resolveYTDLP(ctx context.Context, explicit string, logger *slog.Logger) string {
	if explicit != "" {
		return explicit
	}
	exe, err := extractor.Install(ctx)
	if err != nil {
		logger.Warn("yt-dlp install failed, falling back to PATH", "err", err)
		return ""
	}
	logger.Debug("yt-dlp ready", "path", exe)
	return exe
}

func removeStaleUpdates(dir string, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "update") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			logger.Debug("stale update not removed", "path", path, "err", err)
		}
	}
}

// openWindow shows the UI in a Chromium-family browser in app mode, or in
// the default browser when none is installed. Closing an owned app window
// shuts the application down.
func openWindow(ctx context.Context, url string, shutdown func(), logger *slog.Logger) {
	locator := browser.NewLocator(browser.DefaultProviders(runtime.GOOS)...)
	path, name, ok := locator.Find()
	if !ok {
		logger.Info("no app-mode browser found, using default browser")
		if err := browser.OpenDefault(url); err != nil {
			logger.Error("failed to open browser", "url", url, "err", err)
		}
		return
	}

	cmd, err := browser.Launch(ctx, path, url, browser.DefaultWidth, browser.DefaultHeight)
	if err != nil {
		logger.Warn("app window failed, using default browser", "browser", name, "err", err)
		if err := browser.OpenDefault(url); err != nil {
			logger.Error("failed to open browser", "url", url, "err", err)
		}
		return
	}
	logger.Info("window opened", "browser", name, "url", url)
	go watchWindow(cmd, shutdown, logger)
}

func watchWindow(cmd *exec.Cmd, shutdown func(), logger *slog.Logger) {
	started := time.Now()
	err := cmd.Wait()
	if time.Since(started) < windowOwnedAfter {
		logger.Debug("browser handed off window", "err", err)
		return
	}
	logger.Info("window closed, shutting down")
	shutdown()
}

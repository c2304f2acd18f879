package ffmpeg

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

// Archive sources
const (
	WindowsArchiveURL = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip"
	DarwinArchiveURL  = "https://evermeet.cx/ffmpeg/getrelease/zip"
	EnvArchiveURL     = "VIDEO_DOWNLOADER_FFMPEG_URL"
	archiveName       = "ffmpeg-download.zip"
)

// Binary names without platform suffix
const (
	FFmpegBinary  = "ffmpeg"
	FFprobeBinary = "ffprobe"
)

var zipSignature = []byte("PK\x03\x04")

// Installer locates ffmpeg and installs it into Dir when missing
type Installer struct {
	Dir string
	// URL overrides the per-OS archive source
	URL  string
	GOOS string

	fetcher  *platform.Fetcher
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// NewInstaller creates an installer targeting dir
func NewInstaller(dir, url string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{
		Dir:      dir,
		URL:      url,
		GOOS:     runtime.GOOS,
		fetcher:  platform.NewFetcher(),
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

func (i *Installer) binaryName(base string) string {
	return base + platform.ExecutableSuffix(i.GOOS)
}

// Locate returns the directory holding ffmpeg. The private install
// directory wins over PATH.
func (i *Installer) Locate() (string, bool) {
	if i.Dir != "" && platform.FileExists(filepath.Join(i.Dir, i.binaryName(FFmpegBinary))) {
		return i.Dir, true
	}
	if i.lookPath == nil {
		return "", false
	}
	path, err := i.lookPath(i.binaryName(FFmpegBinary))
	if err != nil {
		return "", false
	}
	return filepath.Dir(path), true
}

// Available reports whether ffmpeg can be found
func (i *Installer) Available() bool {
	_, ok := i.Locate()
	return ok
}

// SourceURL picks the archive to download: environment, then configured
// URL, then the per-OS default.
func (i *Installer) SourceURL() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvArchiveURL)); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(i.URL); v != "" {
		return v, nil
	}
	switch i.GOOS {
	case platform.OSWindows:
		return WindowsArchiveURL, nil
	case platform.OSDarwin:
		return DarwinArchiveURL, nil
	default:
		return "", fmt.Errorf("%w: no ffmpeg archive for %s, install it with the system package manager or set %s",
			model.ErrUnsupportedPlatform, i.GOOS, EnvArchiveURL)
	}
}

// Install downloads and unpacks ffmpeg into Dir. report receives every
// phase change and throttled byte counts; the last status is always done
// or error.
func (i *Installer) Install(ctx context.Context, report func(model.InstallStatus)) (err error) {
	emit := func(status model.InstallStatus) {
		if report != nil {
			report(status)
		}
	}
	defer func() {
		if err != nil {
			i.logger.Error("ffmpeg install failed", "err", err)
			emit(model.InstallStatus{Phase: model.InstallError, Message: err.Error()})
		}
	}()

	src, err := i.SourceURL()
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(i.Dir); err != nil {
		return fmt.Errorf("cannot create ffmpeg directory: %w", err)
	}

	archive := filepath.Join(i.Dir, archiveName)
	defer os.Remove(archive)

	i.logger.Info("downloading ffmpeg", "url", src, "dir", i.Dir)
	emit(model.InstallStatus{Phase: model.InstallDownloading, Message: "Downloading FFmpeg..."})
	err = i.fetcher.Download(ctx, src, archive, func(downloaded, total int64) {
		emit(model.InstallStatus{
			Phase:           model.InstallDownloading,
			Message:         "Downloading FFmpeg...",
			DownloadedBytes: downloaded,
			TotalBytes:      total,
		})
	})
	if err != nil {
		return fmt.Errorf("ffmpeg download failed: %w", err)
	}

	ok, err := looksLikeZip(archive)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unsupported ffmpeg download format from %s (expected .zip)", src)
	}

	emit(model.InstallStatus{Phase: model.InstallExtracting, Message: "Extracting FFmpeg..."})
	if err := i.extract(archive); err != nil {
		return err
	}

	i.logger.Info("ffmpeg installed", "dir", i.Dir)
	emit(model.InstallStatus{Phase: model.InstallDone, Message: "FFmpeg installed successfully"})
	return nil
}

func looksLikeZip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(zipSignature))
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, zipSignature), nil
}

// extract copies ffmpeg and ffprobe from any depth of the archive into
// Dir. Entries under a bin/ directory win over others.
func (i *Installer) extract(archive string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("cannot open ffmpeg archive: %w", err)
	}
	defer zr.Close()

	wanted := map[string]*zip.File{
		i.binaryName(FFmpegBinary):  nil,
		i.binaryName(FFprobeBinary): nil,
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(filepath.ToSlash(f.Name))
		base := name[strings.LastIndex(name, "/")+1:]
		current, ok := wanted[base]
		if !ok {
			continue
		}
		if current == nil || strings.Contains(name, "/bin/") {
			wanted[base] = f
		}
	}

	if wanted[i.binaryName(FFmpegBinary)] == nil {
		return fmt.Errorf("%s not found in archive", i.binaryName(FFmpegBinary))
	}
	for name, f := range wanted {
		if f == nil {
			i.logger.Warn("binary missing from ffmpeg archive", "name", name)
			continue
		}
		if err := extractFile(f, filepath.Join(i.Dir, name)); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	defer os.Remove(tmp.Name())
	return platform.ReplaceFileAtomic(dst, tmp.Name())
}

package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ytget/video-downloader/internal/platform"
)

// ApplyCommand is the subcommand the companion process runs
const ApplyCommand = "apply-update"

// Companion retry policy
const (
	DefaultReplaceInterval = 500 * time.Millisecond
	DefaultReplaceTimeout  = 60 * time.Second
)

// ErrDevelopmentBuild is returned when applying an update to an
// unversioned build
var ErrDevelopmentBuild = errors.New("cannot update in development mode")

// Applier starts the companion that swaps the executable
type Applier struct {
	Version string

	executable func() (string, error)
	start      func(*exec.Cmd) error
	logger     *slog.Logger
}

// NewApplier creates an applier for the running build
func NewApplier(version string, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{
		Version:    version,
		executable: currentExecutable,
		start:      func(cmd *exec.Cmd) error { return cmd.Start() },
		logger:     logger,
	}
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

// Apply launches source as the companion and returns. The caller is
// expected to exit promptly so the target becomes writable.
func (a *Applier) Apply(source string) error {
	if a.Version == "" || a.Version == DevVersion {
		return ErrDevelopmentBuild
	}
	if !platform.FileExists(source) {
		return fmt.Errorf("update file not found: %s", source)
	}
	target, err := a.executable()
	if err != nil {
		return fmt.Errorf("cannot resolve current executable: %w", err)
	}
	if err := os.Chmod(source, 0o755); err != nil {
		return fmt.Errorf("cannot mark update executable: %w", err)
	}

	cmd := exec.Command(source, ApplyCommand, "--source", source, "--target", target)
	if err := a.start(cmd); err != nil {
		return fmt.Errorf("cannot start update companion: %w", err)
	}
	a.logger.Info("update companion started", "source", source, "target", target)
	return nil
}

// ReplaceAndRelaunch is the companion body. It retries replacing target
// with source until it succeeds or ctx ends, then launches target.
func ReplaceAndRelaunch(ctx context.Context, source, target string, interval time.Duration, launch func(path string) error, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultReplaceInterval
	}
	if !platform.FileExists(source) {
		return fmt.Errorf("update file not found: %s", source)
	}

	for attempt := 1; ; attempt++ {
		err := platform.ReplaceFileAtomic(target, source)
		if err == nil {
			logger.Info("executable replaced", "target", target, "attempts", attempt)
			break
		}
		logger.Debug("target not writable yet", "target", target, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up replacing %s: %w", target, err)
		case <-time.After(interval):
		}
	}

	if launch == nil {
		launch = Launch
	}
	if err := launch(target); err != nil {
		return fmt.Errorf("cannot relaunch %s: %w", target, err)
	}
	return nil
}

// Launch starts path detached from the current process
func Launch(path string) error {
	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

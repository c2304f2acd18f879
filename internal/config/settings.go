package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

// File layout
const (
	AppName        = "Universal Video Downloader"
	ConfigFileName = "config.json"
	FilePerm       = 0o644
)

// Default tuning values
const (
	DefaultConcurrentFragments = 4
	DefaultHTTPChunkSize       = "10M"
	DefaultRetries             = 10
	DefaultFragmentRetries     = 10

	MaxConcurrentFragments = 16
	MaxRetries             = 100
)

// DefaultTuning returns the tuning used when the config has none
func DefaultTuning() model.Tuning {
	return model.Tuning{
		ConcurrentFragments: DefaultConcurrentFragments,
		HTTPChunkSize:       DefaultHTTPChunkSize,
		Retries:             DefaultRetries,
		FragmentRetries:     DefaultFragmentRetries,
	}
}

// Settings manages application configuration
type Settings struct {
	mu   sync.RWMutex
	path string
	cfg  model.AppConfig
}

// AppDataDir returns the per-user application directory, creating it.
func AppDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, AppName)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("create app dir: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the config file location inside AppDataDir
func DefaultPath() (string, error) {
	dir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the config at path. A missing file is not an error. A corrupt
// file yields usable defaults together with the decode error so the caller
// can log it.
func Load(path string) (*Settings, error) {
	s := &Settings{path: path, cfg: defaults()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg model.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return s, fmt.Errorf("decode config %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.DownloadFolder) == "" {
		cfg.DownloadFolder = s.cfg.DownloadFolder
	}
	if cfg.CookiesFile != nil && strings.TrimSpace(*cfg.CookiesFile) == "" {
		cfg.CookiesFile = nil
	}
	if cfg.Tuning != nil {
		t := clampTuning(*cfg.Tuning)
		cfg.Tuning = &t
	}
	s.cfg = cfg
	return s, nil
}

func defaults() model.AppConfig {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), "downloads")
	}
	return model.AppConfig{DownloadFolder: dir}
}

// Path returns the file backing these settings
func (s *Settings) Path() string {
	return s.path
}

// Snapshot returns a copy of the current configuration
func (s *Settings) Snapshot() model.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	if s.cfg.CookiesFile != nil {
		c := *s.cfg.CookiesFile
		cfg.CookiesFile = &c
	}
	if s.cfg.Tuning != nil {
		t := *s.cfg.Tuning
		cfg.Tuning = &t
	}
	return cfg
}

// GetDownloadFolder returns the configured download directory
func (s *Settings) GetDownloadFolder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.DownloadFolder
}

// SetDownloadFolder sets the download directory and persists it
func (s *Settings) SetDownloadFolder(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("%w: download folder is empty", model.ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(func(cfg *model.AppConfig) {
		cfg.DownloadFolder = dir
	})
}

// GetCookiesFile returns the cookies file path or "" when unset
func (s *Settings) GetCookiesFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.CookiesFile == nil {
		return ""
	}
	return *s.cfg.CookiesFile
}

// SetCookiesFile sets the cookies file; an empty path clears it
func (s *Settings) SetCookiesFile(path string) error {
	path = strings.TrimSpace(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(func(cfg *model.AppConfig) {
		if path == "" {
			cfg.CookiesFile = nil
		} else {
			cfg.CookiesFile = &path
		}
	})
}

// GetTuning returns the effective extraction tuning
func (s *Settings) GetTuning() model.Tuning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.Tuning == nil {
		return DefaultTuning()
	}
	return *s.cfg.Tuning
}

// SetTuning stores clamped tuning values
func (s *Settings) SetTuning(t model.Tuning) error {
	t = clampTuning(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(func(cfg *model.AppConfig) {
		cfg.Tuning = &t
	})
}

// GetFFmpegURL returns the configured FFmpeg archive override
func (s *Settings) GetFFmpegURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.FFmpegURL
}

func clampTuning(t model.Tuning) model.Tuning {
	if t.ConcurrentFragments < 1 {
		t.ConcurrentFragments = 1
	}
	if t.ConcurrentFragments > MaxConcurrentFragments {
		t.ConcurrentFragments = MaxConcurrentFragments
	}
	if t.Retries < 0 {
		t.Retries = 0
	}
	if t.Retries > MaxRetries {
		t.Retries = MaxRetries
	}
	if t.FragmentRetries < 0 {
		t.FragmentRetries = 0
	}
	if t.FragmentRetries > MaxRetries {
		t.FragmentRetries = MaxRetries
	}
	if strings.TrimSpace(t.HTTPChunkSize) == "" {
		t.HTTPChunkSize = DefaultHTTPChunkSize
	}
	return t
}

// updateLocked applies change to a copy and keeps it only once the copy is
// on disk; caller holds s.mu.
func (s *Settings) updateLocked(change func(cfg *model.AppConfig)) error {
	next := s.cfg
	change(&next)
	if err := s.save(next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// save writes cfg atomically
func (s *Settings) save(cfg model.AppConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

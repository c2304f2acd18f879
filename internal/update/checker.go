package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

// Release source
const (
	DefaultRepo         = "shohan-001/universal-video-downloader"
	ReleaseURLTemplate  = "https://api.github.com/repos/%s/releases/latest"
	DefaultCheckTimeout = 10 * time.Second
	updateFileBase      = "update"
)

type githubRelease struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// Checker queries the release listing
type Checker struct {
	APIURL         string
	CurrentVersion string
	GOOS           string

	client  *http.Client
	fetcher *platform.Fetcher
	logger  *slog.Logger
}

// NewChecker creates a checker for the default repository
func NewChecker(currentVersion string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		APIURL:         fmt.Sprintf(ReleaseURLTemplate, DefaultRepo),
		CurrentVersion: currentVersion,
		GOOS:           runtime.GOOS,
		client:         &http.Client{Timeout: DefaultCheckTimeout},
		fetcher:        platform.NewFetcher(),
		logger:         logger,
	}
}

// Check fetches the latest release and compares it to CurrentVersion
func (c *Checker) Check(ctx context.Context) (*model.ReleaseInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", platform.DefaultUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("update check returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}

	latest := NormalizeTag(release.TagName)
	info := &model.ReleaseInfo{
		CurrentVersion:  c.CurrentVersion,
		LatestVersion:   latest,
		UpdateAvailable: Compare(latest, c.CurrentVersion) > 0,
		ReleaseNotes:    release.Body,
		ReleaseURL:      release.HTMLURL,
	}
	for _, asset := range release.Assets {
		if c.matchesPlatform(asset.Name) {
			info.DownloadURL = asset.BrowserDownloadURL
			break
		}
	}

	c.logger.Info("update checked", "current", c.CurrentVersion, "latest", latest,
		"available", info.UpdateAvailable, "asset", info.DownloadURL != "")
	return info, nil
}

// matchesPlatform picks the asset for this OS: the .exe on Windows,
// otherwise a non-.exe asset naming the OS.
func (c *Checker) matchesPlatform(name string) bool {
	lower := strings.ToLower(name)
	if c.GOOS == platform.OSWindows {
		return strings.HasSuffix(lower, ".exe")
	}
	return !strings.HasSuffix(lower, ".exe") && strings.Contains(lower, c.GOOS)
}

// Download fetches the release asset into dir and returns its path.
// report receives whole percentages, starting at 0 and ending at 100.
func (c *Checker) Download(ctx context.Context, url, dir string, report func(percent int)) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", model.ErrNoUpdateAsset
	}
	emit := func(p int) {
		if report != nil {
			report(p)
		}
	}

	dst := filepath.Join(dir, updateFileBase+platform.ExecutableSuffix(c.GOOS))
	emit(0)
	err := c.fetcher.Download(ctx, url, dst, func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		emit(int(min(downloaded*100/total, 100)))
	})
	if err != nil {
		return "", fmt.Errorf("update download failed: %w", err)
	}
	emit(100)
	c.logger.Info("update downloaded", "path", dst)
	return dst, nil
}

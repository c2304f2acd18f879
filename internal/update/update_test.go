package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/ytget/video-downloader/internal/model"
	"github.com/ytget/video-downloader/internal/platform"
)

const releaseJSON = `{
	"tag_name": "v1.10.0-universal",
	"body": "Bug fixes",
	"html_url": "https://github.com/shohan-001/universal-video-downloader/releases/tag/v1.10.0",
	"assets": [
		{"name": "checksums.txt", "browser_download_url": "https://example.com/checksums.txt"},
		{"name": "UniversalVideoDownloader-linux-amd64", "browser_download_url": "https://example.com/linux"},
		{"name": "UniversalVideoDownloader.exe", "browser_download_url": "https://example.com/win.exe"}
	]
}`

func newTestChecker(t *testing.T, current, goos string, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewChecker(current, nil)
	c.APIURL = server.URL
	c.GOOS = goos
	return c
}

func TestCheck(t *testing.T) {
	var gotUA string
	c := newTestChecker(t, "1.9.9", platform.OSWindows, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(releaseJSON))
	})

	info, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if gotUA == "" {
		t.Error("Expected a User-Agent header")
	}
	if info.LatestVersion != "1.10.0" || !info.UpdateAvailable {
		t.Errorf("Latest/available = %q/%v", info.LatestVersion, info.UpdateAvailable)
	}
	if info.DownloadURL != "https://example.com/win.exe" {
		t.Errorf("DownloadURL = %q", info.DownloadURL)
	}
	if info.ReleaseNotes != "Bug fixes" || info.ReleaseURL == "" || info.CurrentVersion != "1.9.9" {
		t.Errorf("Unexpected release info %+v", info)
	}

	c.GOOS = platform.OSLinux
	info, _ = c.Check(context.Background())
	if info.DownloadURL != "https://example.com/linux" {
		t.Errorf("Linux DownloadURL = %q", info.DownloadURL)
	}

	c.GOOS = platform.OSDarwin
	info, _ = c.Check(context.Background())
	if info.DownloadURL != "" {
		t.Errorf("Darwin DownloadURL = %q, expected none", info.DownloadURL)
	}
}

func TestCheck_NotNewer(t *testing.T) {
	c := newTestChecker(t, "1.10.0", platform.OSWindows, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releaseJSON))
	})
	info, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if info.UpdateAvailable {
		t.Error("Same version must not be offered as an update")
	}
}

func TestCheck_HTTPError(t *testing.T) {
	c := newTestChecker(t, "1.0.0", platform.OSWindows, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	})
	if _, err := c.Check(context.Background()); err == nil {
		t.Error("Expected error on 403")
	}
}

func TestDownload(t *testing.T) {
	payload := make([]byte, 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	c := NewChecker("1.0.0", nil)
	c.GOOS = platform.OSWindows
	var percents []int
	path, err := c.Download(context.Background(), server.URL, t.TempDir(), func(p int) { percents = append(percents, p) })
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "update.exe" {
		t.Errorf("Path = %q, expected update.exe", path)
	}
	if len(percents) < 2 || percents[0] != 0 || percents[len(percents)-1] != 100 {
		t.Errorf("Percents = %v, expected 0..100", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Errorf("Percent decreased: %v", percents)
		}
	}

	if _, err := c.Download(context.Background(), "", t.TempDir(), nil); !errors.Is(err, model.ErrNoUpdateAsset) {
		t.Errorf("Empty URL = %v, expected ErrNoUpdateAsset", err)
	}
}

func TestApply_RefusesDevBuild(t *testing.T) {
	a := NewApplier(DevVersion, nil)
	if err := a.Apply("/nonexistent"); !errors.Is(err, ErrDevelopmentBuild) {
		t.Errorf("Apply() = %v, expected ErrDevelopmentBuild", err)
	}
}

func TestApply_StartsCompanion(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "update")
	if err := os.WriteFile(source, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	var started *exec.Cmd
	a := NewApplier("1.0.0", nil)
	a.executable = func() (string, error) { return "/opt/app/video-downloader", nil }
	a.start = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	if err := a.Apply(source); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if started == nil {
		t.Fatal("Companion was not started")
	}
	expected := []string{source, ApplyCommand, "--source", source, "--target", "/opt/app/video-downloader"}
	if len(started.Args) != len(expected) {
		t.Fatalf("Args = %v, expected %v", started.Args, expected)
	}
	for i := range expected {
		if started.Args[i] != expected[i] {
			t.Errorf("Arg %d = %q, expected %q", i, started.Args[i], expected[i])
		}
	}

	if err := a.Apply(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing update file")
	}
}

func TestReplaceAndRelaunch(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "update")
	target := filepath.Join(dir, "app")
	os.WriteFile(source, []byte("v2"), 0o755)
	os.WriteFile(target, []byte("v1"), 0o755)

	var launched string
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := ReplaceAndRelaunch(ctx, source, target, 10*time.Millisecond, func(path string) error {
		launched = path
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("ReplaceAndRelaunch failed: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "v2" {
		t.Errorf("Target = %q, expected v2", data)
	}
	if launched != target {
		t.Errorf("Launched %q, expected %q", launched, target)
	}
}

func TestReplaceAndRelaunch_GivesUp(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "update")
	os.WriteFile(source, []byte("v2"), 0o755)
	// target directory does not exist, so every attempt fails
	target := filepath.Join(dir, "missing", "app")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	launched := false
	err := ReplaceAndRelaunch(ctx, source, target, 10*time.Millisecond, func(string) error {
		launched = true
		return nil
	}, nil)
	if err == nil {
		t.Error("Expected error when target never becomes writable")
	}
	if launched {
		t.Error("Must not relaunch after giving up")
	}
}

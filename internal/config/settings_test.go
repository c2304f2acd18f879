package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/video-downloader/internal/model"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if settings.GetDownloadFolder() == "" {
		t.Error("Download folder should not be empty")
	}
	if settings.GetCookiesFile() != "" {
		t.Errorf("Expected no cookies file, got %q", settings.GetCookiesFile())
	}
	if settings.GetTuning() != DefaultTuning() {
		t.Errorf("Expected default tuning, got %+v", settings.GetTuning())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("Load should not create the file")
	}
}

func TestSetters_FlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := settings.SetDownloadFolder("/custom/downloads"); err != nil {
		t.Fatalf("SetDownloadFolder failed: %v", err)
	}
	if err := settings.SetCookiesFile("/home/me/cookies.txt"); err != nil {
		t.Fatalf("SetCookiesFile failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := reloaded.GetDownloadFolder(); got != "/custom/downloads" {
		t.Errorf("Expected download folder /custom/downloads, got %s", got)
	}
	if got := reloaded.GetCookiesFile(); got != "/home/me/cookies.txt" {
		t.Errorf("Expected cookies file to persist, got %s", got)
	}
}

func TestSetters_KeepValuesWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// the config dir cannot be created below a regular file
	settings, _ := Load(filepath.Join(blocker, "config.json"))
	folder := settings.GetDownloadFolder()

	if err := settings.SetDownloadFolder("/custom/downloads"); err == nil {
		t.Fatal("Expected SetDownloadFolder to fail")
	}
	if got := settings.GetDownloadFolder(); got != folder {
		t.Errorf("Expected download folder %s after failed save, got %s", folder, got)
	}

	if err := settings.SetCookiesFile("/home/me/cookies.txt"); err == nil {
		t.Fatal("Expected SetCookiesFile to fail")
	}
	if got := settings.GetCookiesFile(); got != "" {
		t.Errorf("Expected no cookies file after failed save, got %s", got)
	}

	if err := settings.SetTuning(model.Tuning{ConcurrentFragments: 8}); err == nil {
		t.Fatal("Expected SetTuning to fail")
	}
	if got := settings.GetTuning(); got != DefaultTuning() {
		t.Errorf("Expected default tuning after failed save, got %+v", got)
	}
}

func TestSetCookiesFile_EmptyWritesNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	settings, _ := Load(path)

	if err := settings.SetCookiesFile("/tmp/c.txt"); err != nil {
		t.Fatal(err)
	}
	if err := settings.SetCookiesFile(""); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	value, ok := raw["cookies_file"]
	if !ok {
		t.Fatal("cookies_file key should always be written")
	}
	if value != nil {
		t.Errorf("Expected cookies_file null, got %v", value)
	}
	if _, ok := raw["download_folder"].(string); !ok {
		t.Error("download_folder should be a string")
	}
}

func TestSetDownloadFolder_RejectsEmpty(t *testing.T) {
	settings, _ := Load(filepath.Join(t.TempDir(), "config.json"))

	err := settings.SetDownloadFolder("   ")
	if !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
}

func TestLoad_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err == nil {
		t.Error("Expected decode error for corrupt file")
	}
	if settings == nil || settings.GetDownloadFolder() == "" {
		t.Error("Corrupt config should still yield defaults")
	}
}

func TestLoad_ReadsNullCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"download_folder": "D:\\Videos", "cookies_file": null}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.GetDownloadFolder() != `D:\Videos` {
		t.Errorf("Expected D:\\Videos, got %s", settings.GetDownloadFolder())
	}
	if settings.GetCookiesFile() != "" {
		t.Errorf("Expected empty cookies, got %s", settings.GetCookiesFile())
	}
}

func TestTuning_Clamped(t *testing.T) {
	settings, _ := Load(filepath.Join(t.TempDir(), "config.json"))

	tests := []struct {
		in       model.Tuning
		expected model.Tuning
	}{
		{
			model.Tuning{ConcurrentFragments: 0, Retries: -3, FragmentRetries: 5},
			model.Tuning{ConcurrentFragments: 1, HTTPChunkSize: DefaultHTTPChunkSize, Retries: 0, FragmentRetries: 5},
		},
		{
			model.Tuning{ConcurrentFragments: 64, HTTPChunkSize: "1M", Retries: 500, FragmentRetries: 500},
			model.Tuning{ConcurrentFragments: MaxConcurrentFragments, HTTPChunkSize: "1M", Retries: MaxRetries, FragmentRetries: MaxRetries},
		},
	}

	for _, test := range tests {
		if err := settings.SetTuning(test.in); err != nil {
			t.Fatal(err)
		}
		if got := settings.GetTuning(); got != test.expected {
			t.Errorf("SetTuning(%+v) stored %+v, expected %+v", test.in, got, test.expected)
		}
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	settings, _ := Load(filepath.Join(t.TempDir(), "config.json"))
	_ = settings.SetCookiesFile("/a.txt")

	snap := settings.Snapshot()
	*snap.CookiesFile = "/changed.txt"

	if settings.GetCookiesFile() != "/a.txt" {
		t.Error("Mutating a snapshot must not change settings")
	}
}

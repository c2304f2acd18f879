package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetcher_Download(t *testing.T) {
	payload := []byte("PK\x03\x04 fake archive body")
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write(payload)
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "sub", "archive.zip")
	var last, total int64
	f := NewFetcher()
	err := f.Download(context.Background(), server.URL, dst, func(downloaded, size int64) {
		last, total = downloaded, size
	})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Expected destination file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("Downloaded body mismatch: %q", data)
	}
	if last != int64(len(payload)) || total != int64(len(payload)) {
		t.Errorf("Final progress = %d/%d, expected %d/%d", last, total, len(payload), len(payload))
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, expected %q", gotUA, DefaultUserAgent)
	}
}

func TestFetcher_DownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	dst := filepath.Join(dir, "file.bin")
	f := NewFetcher()
	if err := f.Download(context.Background(), server.URL, dst, nil); err == nil {
		t.Fatal("Expected error for 404")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("Destination must not exist after failure")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Temporary files left behind: %d", len(entries))
	}
}

func TestReplaceFileAtomic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new.bin")
	dst := filepath.Join(dir, "app.bin")
	if err := os.WriteFile(src, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("v1"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := ReplaceFileAtomic(dst, src); err != nil {
		t.Fatalf("ReplaceFileAtomic failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "v2" {
		t.Errorf("Expected replaced contents v2, got %q", data)
	}
	if _, err := os.Stat(dst + ".new"); !os.IsNotExist(err) {
		t.Error("Staging file should not remain")
	}
}

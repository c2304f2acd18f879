package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// Fetch defaults
const (
	DefaultFetchTimeout   = 30 * time.Minute
	DefaultFetchAttempts  = 3
	DefaultUserAgent      = "Universal-Video-Downloader"
	progressEmitInterval  = 200 * time.Millisecond
	executablePermissions = 0o755
)

// FetchProgressFunc receives byte counters while a fetch runs. total is -1
// when the server does not announce a length.
type FetchProgressFunc func(downloaded, total int64)

// Fetcher downloads files over HTTP with bounded retries
type Fetcher struct {
	Client    *http.Client
	Attempts  int
	UserAgent string
}

// NewFetcher returns a Fetcher with default timeout and retry policy
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: DefaultFetchTimeout},
		Attempts:  DefaultFetchAttempts,
		UserAgent: DefaultUserAgent,
	}
}

type countingWriter struct {
	total int64
	onAdd func(int64)
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.total += int64(n)
	if w.onAdd != nil {
		w.onAdd(w.total)
	}
	return n, nil
}

func shouldRetryFetch(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// Download fetches url into dst, replacing dst only after the body was
// fully received. Transient network failures are retried with a linear
// backoff.
func (f *Fetcher) Download(ctx context.Context, url, dst string, progress FetchProgressFunc) error {
	attempts := f.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := f.downloadOnce(ctx, url, dst, progress)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == attempts || !shouldRetryFetch(err) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*2) * time.Second):
		}
	}
	return lastErr
}

func (f *Fetcher) downloadOnce(ctx context.Context, url, dst string, progress FetchProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %s", resp.Status)
	}

	if err := CreateDirectoryIfNotExists(filepath.Dir(dst)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.download")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if success {
			return
		}
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	total := resp.ContentLength
	throttle := rate.Sometimes{Interval: progressEmitInterval}
	counter := &countingWriter{
		onAdd: func(downloaded int64) {
			if progress == nil {
				return
			}
			throttle.Do(func() { progress(downloaded, total) })
		},
	}
	if progress != nil {
		progress(0, total)
	}
	if _, err := io.Copy(tmp, io.TeeReader(resp.Body, counter)); err != nil {
		return err
	}
	if total > 0 && counter.total != total {
		return io.ErrUnexpectedEOF
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return err
	}
	success = true
	if progress != nil {
		progress(counter.total, total)
	}
	return nil
}

// ReplaceFileAtomic moves src over dst and marks it executable
func ReplaceFileAtomic(dst, src string) error {
	tmp := dst + ".new"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := copyFile(src, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, executablePermissions); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, executablePermissions)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package browser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/video-downloader/internal/platform"
)

func TestExpandPath(t *testing.T) {
	env := map[string]string{"LOCALAPPDATA": `C:\Users\me\AppData\Local`, "HOME": "/home/me"}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{`%LOCALAPPDATA%\Google\Chrome\Application\chrome.exe`, `C:\Users\me\AppData\Local\Google\Chrome\Application\chrome.exe`, true},
		{"$HOME/Applications/Brave", "/home/me/Applications/Brave", true},
		{`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`, `C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`, true},
		{`%MISSING%\x.exe`, `\x.exe`, false},
	}

	for _, test := range tests {
		got, ok := expandPath(test.input, getenv)
		if got != test.expected || ok != test.ok {
			t.Errorf("expandPath(%q) = %q, %v, expected %q, %v", test.input, got, ok, test.expected, test.ok)
		}
	}
}

func TestPathProvider(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "chrome")
	if err := os.WriteFile(second, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := &PathProvider{
		BrowserName: "Google Chrome",
		Paths:       []string{filepath.Join(dir, "missing"), "$UNSET_VAR_FOR_TEST/chrome", second},
		getenv:      func(string) string { return "" },
	}
	path, ok := p.Find()
	if !ok || path != second {
		t.Errorf("Find() = %q, %v, expected %q", path, ok, second)
	}

	p.Paths = p.Paths[:2]
	if _, ok := p.Find(); ok {
		t.Error("Expected no browser when no candidate exists")
	}
}

func TestLookPathProvider(t *testing.T) {
	p := &LookPathProvider{
		BrowserName: "Chromium",
		Names:       []string{"chromium", "chromium-browser"},
		lookPath: func(name string) (string, error) {
			if name == "chromium-browser" {
				return "/usr/bin/chromium-browser", nil
			}
			return "", errors.New("not found")
		},
	}

	path, ok := p.Find()
	if !ok || path != "/usr/bin/chromium-browser" {
		t.Errorf("Find() = %q, %v", path, ok)
	}
}

type stubProvider struct {
	name string
	path string
}

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) Find() (string, bool) {
	return s.path, s.path != ""
}

func TestLocator_Order(t *testing.T) {
	l := NewLocator(stubProvider{name: "Edge"}, stubProvider{name: "Chrome", path: "/c"}, stubProvider{name: "Brave", path: "/b"})

	path, name, ok := l.Find()
	if !ok || path != "/c" || name != "Chrome" {
		t.Errorf("Find() = %q, %q, %v, expected Chrome", path, name, ok)
	}

	if _, _, ok := NewLocator().Find(); ok {
		t.Error("Empty locator should find nothing")
	}
}

func TestDefaultProviders(t *testing.T) {
	tests := []struct {
		goos  string
		count int
		first string
	}{
		{platform.OSWindows, 3, "Microsoft Edge"},
		{platform.OSDarwin, 3, "Microsoft Edge"},
		{platform.OSLinux, 4, "Microsoft Edge"},
	}

	for _, test := range tests {
		providers := DefaultProviders(test.goos)
		if len(providers) != test.count {
			t.Errorf("DefaultProviders(%q) returned %d providers, expected %d", test.goos, len(providers), test.count)
			continue
		}
		if providers[0].Name() != test.first {
			t.Errorf("DefaultProviders(%q)[0] = %q, expected %q", test.goos, providers[0].Name(), test.first)
		}
	}

	if _, ok := DefaultProviders(platform.OSLinux)[0].(*LookPathProvider); !ok {
		t.Error("Linux providers should search PATH")
	}
}

func TestAppArgs(t *testing.T) {
	args := AppArgs("http://127.0.0.1:8000/", 950, 850)
	if args[0] != "--app=http://127.0.0.1:8000/" {
		t.Errorf("First arg = %q", args[0])
	}
	if args[1] != "--window-size=950,850" {
		t.Errorf("Window size arg = %q", args[1])
	}
}

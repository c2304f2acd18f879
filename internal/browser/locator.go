package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ytget/video-downloader/internal/platform"
)

// Default app window size
const (
	DefaultWidth  = 950
	DefaultHeight = 850
)

// Provider finds one browser
type Provider interface {
	Name() string
	Find() (string, bool)
}

// PathProvider checks candidate install paths in order. Paths may use
// %VAR% or $VAR environment references; a path with an unset variable is
// skipped.
type PathProvider struct {
	BrowserName string
	Paths       []string

	exists func(string) bool
	getenv func(string) string
}

// Name returns the browser name
func (p *PathProvider) Name() string { return p.BrowserName }

// Find returns the first existing candidate path
func (p *PathProvider) Find() (string, bool) {
	exists := p.exists
	if exists == nil {
		exists = platform.FileExists
	}
	getenv := p.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, candidate := range p.Paths {
		path, ok := expandPath(candidate, getenv)
		if !ok {
			continue
		}
		if exists(path) {
			return path, true
		}
	}
	return "", false
}

var windowsEnvRef = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

// expandPath resolves %VAR% and $VAR references. ok is false when any
// referenced variable is unset.
func expandPath(path string, getenv func(string) string) (string, bool) {
	ok := true
	lookup := func(name string) string {
		v := getenv(name)
		if v == "" {
			ok = false
		}
		return v
	}
	path = windowsEnvRef.ReplaceAllStringFunc(path, func(ref string) string {
		return lookup(strings.Trim(ref, "%"))
	})
	path = os.Expand(path, lookup)
	return path, ok
}

// LookPathProvider searches PATH for any of the executable names
type LookPathProvider struct {
	BrowserName string
	Names       []string

	lookPath func(string) (string, error)
}

// Name returns the browser name
func (p *LookPathProvider) Name() string { return p.BrowserName }

// Find returns the first executable found on PATH
func (p *LookPathProvider) Find() (string, bool) {
	lookPath := p.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range p.Names {
		if path, err := lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Locator tries providers in order
type Locator struct {
	providers []Provider
}

// NewLocator creates a locator over providers
func NewLocator(providers ...Provider) *Locator {
	return &Locator{providers: providers}
}

// Find returns the path and name of the first browser found
func (l *Locator) Find() (path, name string, ok bool) {
	for _, p := range l.providers {
		if path, ok := p.Find(); ok {
			return path, p.Name(), true
		}
	}
	return "", "", false
}

// AppArgs builds the command line for app mode
func AppArgs(url string, width, height int) []string {
	return []string{
		"--app=" + url,
		fmt.Sprintf("--window-size=%d,%d", width, height),
		"--new-window",
	}
}

// Launch starts the browser in app mode pointed at url. The returned
// command can be waited on to detect the window closing.
func Launch(ctx context.Context, path, url string, width, height int) (*exec.Cmd, error) {
	cmd := exec.CommandContext(ctx, path, AppArgs(url, width, height)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch browser %s: %w", path, err)
	}
	return cmd, nil
}

// OpenDefault opens url with the system default handler
func OpenDefault(url string) error {
	return platform.OpenWithDefaultApp(url)
}

package browser

import "github.com/ytget/video-downloader/internal/platform"

type browserPaths struct {
	name  string
	paths map[string][]string
	names []string // executables to look up on PATH
}

// Known install locations, Edge first as it ships with Windows
var knownBrowsers = []browserPaths{
	{
		name: "Microsoft Edge",
		paths: map[string][]string{
			platform.OSWindows: {
				`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
				`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
				`%LOCALAPPDATA%\Microsoft\Edge\Application\msedge.exe`,
			},
			platform.OSDarwin: {
				"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
				"$HOME/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			},
		},
		names: []string{"microsoft-edge", "microsoft-edge-stable"},
	},
	{
		name: "Google Chrome",
		paths: map[string][]string{
			platform.OSWindows: {
				`C:\Program Files\Google\Chrome\Application\chrome.exe`,
				`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
				`%LOCALAPPDATA%\Google\Chrome\Application\chrome.exe`,
			},
			platform.OSDarwin: {
				"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
				"$HOME/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			},
		},
		names: []string{"google-chrome", "google-chrome-stable"},
	},
	{
		name: "Brave",
		paths: map[string][]string{
			platform.OSWindows: {
				`%LOCALAPPDATA%\BraveSoftware\Brave-Browser\Application\brave.exe`,
				`C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`,
			},
			platform.OSDarwin: {
				"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
			},
		},
		names: []string{"brave-browser", "brave"},
	},
	{
		name:  "Chromium",
		names: []string{"chromium", "chromium-browser"},
	},
}

// DefaultProviders returns the providers for goos in preference order.
// Windows and macOS probe install paths; Linux searches PATH.
func DefaultProviders(goos string) []Provider {
	providers := make([]Provider, 0, len(knownBrowsers))
	for _, b := range knownBrowsers {
		switch goos {
		case platform.OSLinux:
			providers = append(providers, &LookPathProvider{BrowserName: b.name, Names: b.names})
		default:
			if paths := b.paths[goos]; len(paths) > 0 {
				providers = append(providers, &PathProvider{BrowserName: b.name, Paths: paths})
			}
		}
	}
	return providers
}

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
	WindowsCmdFlag  = "/c"
)

// Folder name limits
const (
	MaxFolderNameLength = 100
	DefaultFolderName   = "Playlist"
	illegalNameChars    = `<>:"/\|?*`
)

// PartialExtensions are suffixes the extraction library uses for in-progress
// and resume metadata files.
var PartialExtensions = []string{".part", ".ytdl", ".temp"}

// partialFragmentMarker matches fragment files such as "video.mp4.part-Frag12"
const partialFragmentMarker = ".part-Frag"

// Names Windows refuses regardless of extension
var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// SanitizeFolderName turns an arbitrary title into a safe directory name.
// Illegal characters and control runes are stripped, trailing dots and
// spaces trimmed, length capped, and an empty result replaced by
// DefaultFolderName.
func SanitizeFolderName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(illegalNameChars, r) || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	clean := strings.TrimSpace(b.String())

	runes := []rune(clean)
	if len(runes) > MaxFolderNameLength {
		clean = string(runes[:MaxFolderNameLength])
	}
	clean = strings.TrimRight(clean, ". ")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return DefaultFolderName
	}
	if _, reserved := windowsReservedNames[strings.ToUpper(clean)]; reserved {
		clean += "_"
	}
	return clean
}

// IsPartialFile reports whether name looks like an unfinished download
func IsPartialFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range PartialExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, strings.ToLower(partialFragmentMarker))
}

// CleanupPartials deletes partial-download files directly inside dir and
// returns the removed paths. Finished media and subdirectories are left alone.
func CleanupPartials(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var removed []string
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !IsPartialFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %s: %w", path, err)
			}
			continue
		}
		removed = append(removed, path)
	}
	return removed, firstErr
}

// OpenFolder opens a directory in the system file manager
func OpenFolder(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSWindows:
		// explorer exits with status 1 even on success
		_ = exec.Command(ExplorerCommand, absPath).Run()
		return nil
	default:
		return OpenWithDefaultApp(absPath)
	}
}

// OpenWithDefaultApp opens a path or URL with the default system handler
func OpenWithDefaultApp(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case OSDarwin:
		cmd = exec.Command(OpenCommand, target)
	case OSWindows:
		cmd = exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", target)
	case OSLinux:
		cmd = exec.Command(XDGOpenCommand, target)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// ExecutableSuffix returns ".exe" on Windows and "" elsewhere
func ExecutableSuffix(goos string) string {
	if goos == OSWindows {
		return ".exe"
	}
	return ""
}

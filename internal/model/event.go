package model

// EventType names a push event delivered to the UI
type EventType string

const (
	EventProgress         EventType = "progress"
	EventProcessing       EventType = "processing"
	EventPlaylistProgress EventType = "playlist_progress"
	EventDownloadComplete EventType = "download_complete"
	EventFFmpegStatus     EventType = "ffmpeg_status"
	EventUpdateProgress   EventType = "update_progress"
	EventUpdateComplete   EventType = "update_complete"
)

// Result is the terminal payload of an asynchronous operation
type Result struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
	Path    string  `json:"path,omitempty"`
}

// Success reports whether the operation completed
func (r *Result) Success() bool {
	return r != nil && r.Outcome == OutcomeCompleted
}

// Event is a single push from a background worker to the UI bridge
type Event struct {
	Type     EventType         `json:"type"`
	TaskID   string            `json:"task_id,omitempty"`
	Progress *DisplayProgress  `json:"progress,omitempty"`
	Playlist *PlaylistProgress `json:"playlist,omitempty"`
	Install  *InstallStatus    `json:"install,omitempty"`
	Result   *Result           `json:"result,omitempty"`
	Message  string            `json:"message,omitempty"`
	Percent  int               `json:"percent,omitempty"`
}

// IsTerminal returns true for events that close an operation
func (e Event) IsTerminal() bool {
	return e.Type == EventDownloadComplete || e.Type == EventUpdateComplete
}

package model

// InstallPhase is a step of a dependency install
type InstallPhase string

const (
	InstallDownloading InstallPhase = "downloading"
	InstallExtracting  InstallPhase = "extracting"
	InstallDone        InstallPhase = "done"
	InstallError       InstallPhase = "error"
)

// InstallStatus reports dependency installer progress
type InstallStatus struct {
	Phase           InstallPhase `json:"phase"`
	Message         string       `json:"message"`
	DownloadedBytes int64        `json:"downloaded_bytes,omitempty"`
	TotalBytes      int64        `json:"total_bytes,omitempty"`
}

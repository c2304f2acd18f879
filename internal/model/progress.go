package model

// SampleStatus is the state reported by one extraction-library callback tick
type SampleStatus string

const (
	SampleDownloading SampleStatus = "downloading"
	SampleFinished    SampleStatus = "finished"
	SampleError       SampleStatus = "error"
	SampleUnknown     SampleStatus = "unknown"
)

// ProgressSample is one raw callback tick. Zero byte counts mean unknown;
// ETASec is -1 when unknown. The *Text fields carry values the library
// already formatted and take precedence over the raw numbers.
type ProgressSample struct {
	Status             SampleStatus
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	Speed              float64 // bytes per second, <= 0 when unknown
	ETASec             int

	// Set only by engines that supply pre-formatted values; the go-ytdlp
	// engine leaves them empty.
	PercentText string
	SpeedText   string
	ETAText     string
	TotalText   string

	ItemID        string // extractor ID of the item being fetched
	Title         string
	Filename      string
	PlaylistIndex int // one-based, 0 when not in a playlist
}

// DisplayProgress is UI-ready progress derived from one sample
type DisplayProgress struct {
	Percent       float64 `json:"percent"` // 0 to 100, one decimal
	Speed         string  `json:"speed"`
	ETA           string  `json:"eta"`
	Size          string  `json:"size"`
	Title         string  `json:"title,omitempty"`
	PlaylistIndex int     `json:"playlist_index,omitempty"`
}

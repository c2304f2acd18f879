package model

// Tuning holds extraction-library performance knobs
type Tuning struct {
	ConcurrentFragments int    `json:"concurrent_fragments"`
	HTTPChunkSize       string `json:"http_chunk_size"`
	Retries             int    `json:"retries"`
	FragmentRetries     int    `json:"fragment_retries"`
}

// AppConfig is the persisted user configuration
type AppConfig struct {
	DownloadFolder string  `json:"download_folder"`
	CookiesFile    *string `json:"cookies_file"`
	Tuning         *Tuning `json:"tuning,omitempty"`
	FFmpegURL      string  `json:"ffmpeg_url,omitempty"`
}

package media

// Package media answers "what is behind this URL": title, duration,
// qualities and playlist entries. It also resolves the plan of playlist
// items a download will fetch.

package browser

// Package browser finds an installed Chromium-family browser and opens the
// UI in its app mode. Discovery is an ordered list of providers; the
// per-OS install paths are plain data.

package platform

// Package platform contains OS integration glue: download folders, folder
// name sanitizing, partial-file cleanup, opening paths and URLs with the
// system handler, and resumable-safe HTTP fetches for installers.

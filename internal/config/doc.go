package config

// Package config persists user preferences as a flat JSON document in the
// per-user application data directory. Every setter flushes to disk.

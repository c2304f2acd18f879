package model

// Package model defines domain data structures shared across the app:
// download requests and tasks, playlist plans, raw and display progress,
// push events for the UI bridge, and the persisted configuration shape.

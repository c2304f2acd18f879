package progress

// Package progress turns raw engine progress samples into UI-ready display
// values and push events. It also enforces cancellation at every tick.

package bridge

// Package bridge exposes the application to the locally rendered web page:
// a JSON API under /api/ for request/response calls and a Server-Sent
// Events stream at /api/events for asynchronous push events (progress,
// completion, installer and update status).

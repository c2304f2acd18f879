package update

// Package update checks the release listing for a newer build, downloads
// it, and swaps the running executable through a companion process.
//
// The companion is the downloaded binary itself, started as
//
//	<update> apply-update --source <update> --target <current executable>
//
// It retries the replacement until the target is writable (the old
// process has exited), then launches the target and exits.

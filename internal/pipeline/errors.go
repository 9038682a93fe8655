package pipeline

import "errors"

// Failure conditions logged by the controller. None of these cross the
// public API: every operation resolves to a bool or a result struct and
// the detail lands in the logs only.
var (
	// ErrInvalidSource indicates an empty source URL.
	ErrInvalidSource = errors.New("source URL is empty")

	// ErrBinaryUnavailable indicates the ffmpeg probe failed.
	ErrBinaryUnavailable = errors.New("ffmpeg binary is not available")

	// ErrDirectoryUnavailable indicates both the primary and the fallback
	// output directory could not be created.
	ErrDirectoryUnavailable = errors.New("no writable output directory")
)

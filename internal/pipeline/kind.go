package pipeline

import "time"

// Kind identifies which pipeline a process belongs to.
type Kind string

// Pipeline kinds.
const (
	KindStreaming Kind = "streaming" // live HLS preview
	KindRecording Kind = "recording" // archival MP4 capture
)

// Key identifies the single process slot for a camera and kind.
// At most one live process exists per key.
type Key struct {
	CameraID string
	Kind     Kind
}

// Entry is the metadata snapshot of a registered process.
type Entry struct {
	CameraID   string    `json:"camera_id"`
	Kind       Kind      `json:"kind"`
	PID        int       `json:"pid"`
	StartedAt  time.Time `json:"started_at"`
	OutputPath string    `json:"output_path"`
}

// key returns the registry key for this entry.
func (e Entry) key() Key {
	return Key{CameraID: e.CameraID, Kind: e.Kind}
}

// Package cameras manages camera definitions: identifier, display name,
// source URL, and enablement. Definitions live in a TOML file so they
// survive daemon restarts; runtime process state never does.
package cameras

import "errors"

// Camera is one configured camera source.
type Camera struct {
	ID      string `toml:"id" json:"id"`
	Name    string `toml:"name" json:"name"`
	Source  string `toml:"source" json:"source"`
	Enabled bool   `toml:"enabled" json:"enabled"`
}

// Store errors.
var (
	ErrNotFound      = errors.New("camera not found")
	ErrAlreadyExists = errors.New("camera already exists")
	ErrMissingID     = errors.New("camera id is required")
)

// Store is the camera definition repository.
type Store interface {
	// Load reads the definitions from disk. A missing file is an empty store.
	Load() error

	// List returns all cameras.
	List() []Camera

	// Get returns a camera by ID.
	Get(id string) (Camera, bool)

	// Add persists a new camera. Fails if the ID is taken.
	Add(cam Camera) error

	// Update replaces an existing camera definition.
	Update(id string, cam Camera) error

	// Remove deletes a camera definition.
	Remove(id string) error
}

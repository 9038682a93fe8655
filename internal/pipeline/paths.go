package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
)

const fallbackNamespace = "camkeep"

// pathResolver creates per-camera output directories under a configured
// base path, falling back to the system temp directory when the primary
// location is not writable.
type pathResolver struct {
	base   string
	logger *slog.Logger
}

// Resolve returns a writable directory for the given kind and camera,
// creating it if needed. The primary location is <base>/<kind>/<cameraID>;
// the fallback is the same layout under os.TempDir(). Returns
// ErrDirectoryUnavailable when neither can be created.
func (r *pathResolver) Resolve(kind Kind, cameraID string) (string, error) {
	primary := filepath.Join(r.base, string(kind), cameraID)
	err := os.MkdirAll(primary, 0o755)
	if err == nil {
		return primary, nil
	}
	r.logger.Warn("Primary output directory unavailable, trying fallback",
		"dir", primary, "error", err)

	fallback := filepath.Join(os.TempDir(), fallbackNamespace, string(kind), cameraID)
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		r.logger.Error("Fallback output directory unavailable",
			"dir", fallback, "error", err)
		return "", ErrDirectoryUnavailable
	}

	r.logger.Info("Using fallback output directory", "dir", fallback)
	return fallback, nil
}

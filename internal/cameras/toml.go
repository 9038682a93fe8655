package cameras

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the on-disk shape of the cameras file.
type fileConfig struct {
	Version int               `toml:"version"`
	Cameras map[string]Camera `toml:"cameras"`
}

// tomlStore implements Store backed by a TOML file. All mutations are
// written through immediately.
type tomlStore struct {
	path string
	mu   sync.RWMutex
	cfg  fileConfig
}

// NewTOML creates a TOML-backed camera store at path.
func NewTOML(path string) Store {
	if path == "" {
		path = "cameras.toml"
	}
	return &tomlStore{
		path: path,
		cfg: fileConfig{
			Version: 1,
			Cameras: make(map[string]Camera),
		},
	}
}

func (s *tomlStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cameras file: %w", err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse cameras file: %w", err)
	}
	if cfg.Cameras == nil {
		cfg.Cameras = make(map[string]Camera)
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	// The map key wins over any id field inside the table.
	for id, cam := range cfg.Cameras {
		cam.ID = id
		cfg.Cameras[id] = cam
	}

	s.cfg = cfg
	return nil
}

// save writes the configuration to disk. Caller must hold the write lock.
func (s *tomlStore) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cameras directory: %w", err)
		}
	}

	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal cameras: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cameras file: %w", err)
	}
	return nil
}

func (s *tomlStore) List() []Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Camera, 0, len(s.cfg.Cameras))
	for _, cam := range s.cfg.Cameras {
		out = append(out, cam)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *tomlStore) Get(id string) (Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cam, ok := s.cfg.Cameras[id]
	return cam, ok
}

func (s *tomlStore) Add(cam Camera) error {
	if cam.ID == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cfg.Cameras[cam.ID]; exists {
		return ErrAlreadyExists
	}
	s.cfg.Cameras[cam.ID] = cam
	return s.save()
}

func (s *tomlStore) Update(id string, cam Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cfg.Cameras[id]; !exists {
		return ErrNotFound
	}
	cam.ID = id
	s.cfg.Cameras[id] = cam
	return s.save()
}

func (s *tomlStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cfg.Cameras[id]; !exists {
		return ErrNotFound
	}
	delete(s.cfg.Cameras, id)
	return s.save()
}

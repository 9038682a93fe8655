package cameras

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) Store {
	t.Helper()
	return NewTOML(filepath.Join(t.TempDir(), "cameras.toml"))
}

func TestLoadMissingFile(t *testing.T) {
	s := testStore(t)
	if err := s.Load(); err != nil {
		t.Fatalf("Load of missing file should succeed, got %v", err)
	}
	if got := len(s.List()); got != 0 {
		t.Errorf("expected empty store, got %d cameras", got)
	}
}

func TestAddGetRemove(t *testing.T) {
	s := testStore(t)

	cam := Camera{ID: "cam1", Name: "Front door", Source: "rtsp://door/main", Enabled: true}
	if err := s.Add(cam); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, ok := s.Get("cam1")
	if !ok {
		t.Fatal("expected camera to exist")
	}
	if got.Source != cam.Source || got.Name != cam.Name {
		t.Errorf("Get returned %+v, want %+v", got, cam)
	}

	if err := s.Remove("cam1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := s.Get("cam1"); ok {
		t.Error("camera should be gone")
	}
}

func TestAddDuplicate(t *testing.T) {
	s := testStore(t)
	cam := Camera{ID: "cam1", Source: "rtsp://a"}
	if err := s.Add(cam); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(cam); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddMissingID(t *testing.T) {
	s := testStore(t)
	if err := s.Add(Camera{Source: "rtsp://a"}); !errors.Is(err, ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := testStore(t)
	err := s.Update("ghost", Camera{Source: "rtsp://b"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistenceRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.toml")

	s := NewTOML(path)
	if err := s.Add(Camera{ID: "cam1", Name: "Garage", Source: "rtsp://garage", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(Camera{ID: "cam2", Source: "rtsp://yard"}); err != nil {
		t.Fatal(err)
	}

	reloaded := NewTOML(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cams := reloaded.List()
	if len(cams) != 2 {
		t.Fatalf("expected 2 cameras after reload, got %d", len(cams))
	}
	if cams[0].ID != "cam1" || cams[1].ID != "cam2" {
		t.Errorf("unexpected order: %+v", cams)
	}
	if cams[0].Name != "Garage" || !cams[0].Enabled {
		t.Errorf("cam1 fields lost in roundtrip: %+v", cams[0])
	}
}

func TestLoadNormalizesIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.toml")
	raw := `version = 1

[cameras.cam1]
name = "Front"
source = "rtsp://front"
enabled = true
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewTOML(path)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	cam, ok := s.Get("cam1")
	if !ok {
		t.Fatal("expected cam1")
	}
	if cam.ID != "cam1" {
		t.Errorf("ID not normalized from map key: %q", cam.ID)
	}
}

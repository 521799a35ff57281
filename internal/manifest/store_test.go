package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "manifest.json"))

	m, err := s.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if len(m.Albums) != 0 || len(m.Photos) != 0 {
		t.Fatalf("expected empty manifest, got %+v", m)
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "data", "manifest.json"))

	in := sampleManifest()
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.LastUpdated.IsZero() {
		t.Fatal("expected LastUpdated to be set on save")
	}
	if len(out.Albums) != 2 || len(out.Photos) != 3 {
		t.Fatalf("round trip lost data: %+v", out)
	}
	if out.Chapters["a1"][0].PhotoIDs[0] != "p1" {
		t.Fatalf("chapters lost in round trip: %+v", out.Chapters)
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "manifest.json"))

	if err := s.Save(Manifest{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "manifest.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

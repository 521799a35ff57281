package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewManagerMissingFileUsesDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "lrsync.config"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	c := m.GetConfig()
	if c.OutputDir != "public/photos" {
		t.Fatalf("unexpected default output dir: %q", c.OutputDir)
	}
	if c.Interval != time.Hour {
		t.Fatalf("unexpected default interval: %v", c.Interval)
	}
	if c.MaxWorkers != 1 {
		t.Fatalf("unexpected default max workers: %d", c.MaxWorkers)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lrsync.config")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	if err := m.AddGallery(GalleryEntry{URL: "https://photos.example/shares/abc", Featured: true}); err != nil {
		t.Fatalf("add gallery: %v", err)
	}
	if err := m.AddGallery(GalleryEntry{AlbumID: "album-1", AlbumName: "Iceland"}); err != nil {
		t.Fatalf("add private gallery: %v", err)
	}
	if err := m.SetSyncTag("portfolio"); err != nil {
		t.Fatalf("set sync tag: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}

	c := reloaded.GetConfig()
	if len(c.Galleries) != 2 {
		t.Fatalf("expected 2 galleries, got %d", len(c.Galleries))
	}
	if !c.Galleries[0].Featured {
		t.Fatal("featured flag lost in round trip")
	}
	if !c.Galleries[1].IsPrivate() || c.Galleries[1].AlbumName != "Iceland" {
		t.Fatalf("private entry lost in round trip: %+v", c.Galleries[1])
	}
	if c.SyncTag != "portfolio" {
		t.Fatalf("sync tag lost in round trip: %q", c.SyncTag)
	}
}

func TestAddGalleryValidation(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "lrsync.config"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	cases := []struct {
		name  string
		entry GalleryEntry
	}{
		{"empty", GalleryEntry{}},
		{"both url and album id", GalleryEntry{URL: "https://x", AlbumID: "y"}},
		{"private without name", GalleryEntry{AlbumID: "y"}},
	}
	for _, tc := range cases {
		if err := m.AddGallery(tc.entry); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	if err := m.AddGallery(GalleryEntry{URL: "https://photos.example/shares/abc"}); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}
	if err := m.AddGallery(GalleryEntry{URL: "https://photos.example/shares/abc"}); err == nil {
		t.Fatal("duplicate URL accepted")
	}
}

func TestRemoveGallery(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "lrsync.config"))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	if err := m.AddGallery(GalleryEntry{AlbumID: "album-1", AlbumName: "Iceland"}); err != nil {
		t.Fatalf("add gallery: %v", err)
	}

	removed, err := m.RemoveGallery("album-1")
	if err != nil {
		t.Fatalf("remove gallery: %v", err)
	}
	if removed.AlbumName != "Iceland" {
		t.Fatalf("unexpected removed entry: %+v", removed)
	}
	if len(m.GetConfig().Galleries) != 0 {
		t.Fatal("gallery list not empty after removal")
	}

	if _, err := m.RemoveGallery("album-1"); err == nil {
		t.Fatal("expected error removing unknown gallery")
	}
}

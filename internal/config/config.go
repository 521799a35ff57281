package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// GalleryEntry is one configured sync source: either a public share URL or a
// private album id. Owned by configuration storage; read-only to the engine.
type GalleryEntry struct {
	URL       string `json:"url,omitempty" koanf:"url"`
	AlbumID   string `json:"albumId,omitempty" koanf:"album_id"`
	AlbumName string `json:"albumName,omitempty" koanf:"album_name"`
	Type      string `json:"type,omitempty" koanf:"type"`
	Tag       string `json:"tag,omitempty" koanf:"tag"`
	Featured  bool   `json:"featured" koanf:"featured"`
}

// IsPrivate reports whether the entry targets the authenticated catalog API.
func (e GalleryEntry) IsPrivate() bool {
	return e.AlbumID != ""
}

// DisplayName returns a human-readable name for logging and progress events.
func (e GalleryEntry) DisplayName() string {
	if e.AlbumName != "" {
		return e.AlbumName
	}
	if e.URL != "" {
		return e.URL
	}
	return e.AlbumID
}

// Config represents the persistent configuration.
type Config struct {
	Galleries       []GalleryEntry `json:"galleries" koanf:"galleries"`
	SyncTag         string         `json:"syncTag" koanf:"sync_tag"`
	OutputDir       string         `json:"outputDir" koanf:"output_dir"`
	ManifestPath    string         `json:"manifestPath" koanf:"manifest_path"`
	CredentialsPath string         `json:"credentialsPath" koanf:"credentials_path"`
	EncryptionKey   string         `json:"encryptionKey,omitempty" koanf:"encryption_key"`
	Interval        time.Duration  `json:"interval" koanf:"interval"`
	MaxWorkers      int            `json:"maxWorkers" koanf:"max_workers"`
	RequestDelay    time.Duration  `json:"requestDelay" koanf:"request_delay"`
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() Config {
	return Config{
		OutputDir:       "public/photos",
		ManifestPath:    "data/manifest.json",
		CredentialsPath: "data/tokens",
		Interval:        time.Hour,
		MaxWorkers:      1,
	}
}

// Manager manages configuration loading and saving.
type Manager struct {
	config     Config
	configPath string
}

// NewManager creates a Manager and loads the configuration from the given
// path. A missing or empty file resolves to defaults.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		configPath = "lrsync.config"
	}

	m := &Manager{configPath: configPath}

	data, _ := os.ReadFile(configPath)
	if len(data) == 0 {
		m.config = DefaultConfig()
	} else {
		m.config = m.loadFromFile()
	}

	return m, nil
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() Config {
	return m.config
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// Save persists the current configuration to disk.
func (m *Manager) Save() error {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(m.config, "koanf"), nil); err != nil {
		slog.Error("failed to load config struct", "error", err)
		return err
	}
	b, err := k.Marshal(yaml.Parser())
	if err != nil {
		slog.Error("failed to marshal config", "error", err)
		return err
	}

	if err := os.WriteFile(m.configPath, b, 0o644); err != nil {
		slog.Error("failed to write config file", "error", err)
		return err
	}

	return nil
}

// loadFromFile loads config from the config file.
func (m *Manager) loadFromFile() Config {
	var c Config
	k := koanf.New(".")
	if err := k.Load(file.Provider(m.configPath), yaml.Parser()); err != nil {
		slog.Error("error parsing app config", "error", err)
		return DefaultConfig()
	}
	if err := k.Unmarshal("", &c); err != nil {
		slog.Error("error unmarshaling app config", "error", err)
		return DefaultConfig()
	}

	defaults := DefaultConfig()
	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}
	if c.ManifestPath == "" {
		c.ManifestPath = defaults.ManifestPath
	}
	if c.CredentialsPath == "" {
		c.CredentialsPath = defaults.CredentialsPath
	}
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.MaxWorkers < 1 {
		c.MaxWorkers = defaults.MaxWorkers
	}

	return c
}

// AddGallery validates and appends a new gallery entry.
func (m *Manager) AddGallery(entry GalleryEntry) error {
	if entry.URL == "" && entry.AlbumID == "" {
		return fmt.Errorf("gallery entry needs a share URL or an album id")
	}
	if entry.URL != "" && entry.AlbumID != "" {
		return fmt.Errorf("gallery entry cannot have both a share URL and an album id")
	}
	if entry.IsPrivate() && entry.AlbumName == "" {
		return fmt.Errorf("private gallery entries need an album name")
	}

	for _, existing := range m.config.Galleries {
		if entry.URL != "" && existing.URL == entry.URL {
			return fmt.Errorf("gallery with URL %s already exists", entry.URL)
		}
		if entry.AlbumID != "" && existing.AlbumID == entry.AlbumID {
			return fmt.Errorf("gallery with album id %s already exists", entry.AlbumID)
		}
	}

	m.config.Galleries = append(m.config.Galleries, entry)
	return m.Save()
}

// RemoveGallery removes a gallery entry by URL or album id.
func (m *Manager) RemoveGallery(identifier string) (GalleryEntry, error) {
	if identifier == "" {
		return GalleryEntry{}, fmt.Errorf("identifier cannot be empty")
	}

	found := false
	var removed GalleryEntry
	var updated []GalleryEntry

	for _, entry := range m.config.Galleries {
		if entry.URL == identifier || entry.AlbumID == identifier {
			found = true
			removed = entry
			continue
		}
		updated = append(updated, entry)
	}

	if !found {
		return GalleryEntry{}, fmt.Errorf("no gallery found for %s", identifier)
	}

	m.config.Galleries = updated
	return removed, m.Save()
}

// SetSyncTag updates the sync tag filter.
func (m *Manager) SetSyncTag(tag string) error {
	m.config.SyncTag = tag
	return m.Save()
}

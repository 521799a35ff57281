package main

import (
	"fmt"
	"strings"

	"lrsync/internal/config"
	"lrsync/internal/credentials"
	"lrsync/internal/images"
	"lrsync/internal/lightroom"
	"lrsync/internal/manifest"
	"lrsync/internal/syncer"
)

var configPath string
var apiKeyOverride string
var encryptionKeyOverride string
var cfgManager *config.Manager

func loadConfig() error {
	var err error
	cfgManager, err = config.NewManager(configPath)
	return err
}

func apiKey() string {
	return apiKeyOverride
}

func encryptionKey(cfg config.Config) string {
	if encryptionKeyOverride != "" {
		return encryptionKeyOverride
	}
	return cfg.EncryptionKey
}

// buildEngine wires the vendor client, the image pipeline, the credential and
// manifest stores into a ready-to-run engine.
func buildEngine(cfg config.Config, report syncer.Reporter) (*syncer.Engine, error) {
	creds, err := credentials.NewStore(cfg.CredentialsPath, encryptionKey(cfg))
	if err != nil {
		return nil, fmt.Errorf("open credentials store: %w", err)
	}

	client := lightroom.New(lightroom.Config{
		APIKey: apiKey(),
		Delay:  cfg.RequestDelay,
	})

	pipeline := images.New(images.Config{
		OutputDir: cfg.OutputDir,
		APIKey:    apiKey(),
		APIDomain: "adobe.com",
	})

	return syncer.NewEngine(syncer.EngineConfig{
		Config:      cfg,
		Resolver:    client,
		Pipeline:    pipeline,
		Credentials: creds,
		Store:       manifest.NewStore(cfg.ManifestPath),
		Reporter:    report,
	}), nil
}

// entryFromSource classifies a gallery source string: anything that parses as
// an http(s) URL is a public share link, everything else is a private album id.
func entryFromSource(source, name, tag string, featured bool) (config.GalleryEntry, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return config.GalleryEntry{}, fmt.Errorf("gallery source is required")
	}

	entry := config.GalleryEntry{
		AlbumName: name,
		Tag:       tag,
		Featured:  featured,
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		entry.URL = source
	} else {
		entry.AlbumID = source
	}
	return entry, nil
}

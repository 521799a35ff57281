package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"lrsync/internal/config"
	"lrsync/internal/manifest"
)

func galleryAddAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	entry, err := entryFromSource(
		cmd.StringArg("source"),
		cmd.String("name"),
		cmd.String("tag"),
		cmd.Bool("featured"),
	)
	if err != nil {
		return err
	}

	if err := cfgManager.AddGallery(entry); err != nil {
		return fmt.Errorf("failed to add gallery: %w", err)
	}

	logger.Info("gallery added", "name", entry.DisplayName(), "private", entry.IsPrivate())
	return nil
}

func galleryListAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cfgManager.GetConfig()

	if len(cfg.Galleries) == 0 {
		fmt.Println("No galleries configured.")
		return nil
	}

	for i, entry := range cfg.Galleries {
		kind := "public"
		source := entry.URL
		if entry.IsPrivate() {
			kind = "private"
			source = entry.AlbumID
		}
		line := fmt.Sprintf("%d. [%s] %s", i+1, kind, entry.DisplayName())
		if entry.AlbumName != "" && source != entry.DisplayName() {
			line += " (" + source + ")"
		}
		if entry.Tag != "" {
			line += " tag=" + entry.Tag
		}
		if entry.Featured {
			line += " featured"
		}
		fmt.Println(line)
	}
	if cfg.SyncTag != "" {
		fmt.Printf("Sync tag filter: %s\n", cfg.SyncTag)
	}
	return nil
}

func galleryRemoveAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	identifier := cmd.StringArg("identifier")
	if identifier == "" {
		return fmt.Errorf("gallery identifier is required")
	}

	removed, err := cfgManager.RemoveGallery(identifier)
	if err != nil {
		return fmt.Errorf("failed to remove gallery: %w", err)
	}

	logger.Info("gallery removed", "name", removed.DisplayName())

	if cmd.Bool("purge") {
		if err := purgeAlbum(removed); err != nil {
			return fmt.Errorf("failed to purge album from manifest: %w", err)
		}
	}
	return nil
}

// purgeAlbum drops the removed gallery's album, photos, and chapters from the
// manifest. The derived image files stay on disk.
func purgeAlbum(entry config.GalleryEntry) error {
	galleryURL := entry.URL
	if entry.IsPrivate() {
		galleryURL = "private:" + entry.AlbumID
	}

	store := manifest.NewStore(cfgManager.GetConfig().ManifestPath)
	m, err := store.Load()
	if err != nil {
		return err
	}

	var albumID string
	for _, album := range m.Albums {
		if album.GalleryURL == galleryURL {
			albumID = album.ID
			break
		}
	}
	if albumID == "" {
		logger.Info("no album in manifest for removed gallery", "name", entry.DisplayName())
		return nil
	}

	if err := store.Save(manifest.RemoveAlbum(m, albumID)); err != nil {
		return err
	}
	logger.Info("album purged from manifest", "album", albumID)
	return nil
}

func setTagAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tag := cmd.StringArg("tag")
	if err := cfgManager.SetSyncTag(tag); err != nil {
		return fmt.Errorf("failed to set sync tag: %w", err)
	}

	if tag == "" {
		logger.Info("sync tag cleared")
	} else {
		logger.Info("sync tag set", "tag", tag)
	}
	return nil
}

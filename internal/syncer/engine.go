// Package syncer runs the sync: it iterates the configured gallery list,
// resolves each entry against the vendor, normalizes metadata, materializes
// image variants, and merges the results into the persisted manifest.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alitto/pond/v2"

	"lrsync/internal/config"
	"lrsync/internal/credentials"
	"lrsync/internal/images"
	"lrsync/internal/lightroom"
	"lrsync/internal/manifest"
)

// Resolver is the vendor API surface the engine depends on. ResolveShare
// returns the album-level fields only; ShareAssets is the expensive per-asset
// fetch, called once a gallery survives the tag filter.
type Resolver interface {
	ResolveShare(ctx context.Context, shareURL string) (*lightroom.Gallery, error)
	ShareAssets(ctx context.Context, g *lightroom.Gallery) ([]lightroom.Asset, error)
	CatalogID(ctx context.Context, token string) (string, error)
	ListAlbumAssets(ctx context.Context, token, catalogID, albumID string) (*lightroom.Gallery, error)
	AccountAssetTitles(ctx context.Context, token, catalogID string) (map[string]lightroom.TitleCaption, error)
	PrivateRenditionURL(ctx context.Context, token, catalogID, assetID string) (string, error)
}

// Materializer produces the derived image variants for one asset.
type Materializer interface {
	Materialize(ctx context.Context, srcURL, albumSlug, assetID string) (*images.Variants, error)
}

// CredentialSource loads stored OAuth tokens.
type CredentialSource interface {
	Load() (*credentials.Token, error)
}

// ManifestStore loads and persists the manifest.
type ManifestStore interface {
	Load() (manifest.Manifest, error)
	Save(manifest.Manifest) error
}

// EngineConfig wires an Engine's collaborators.
type EngineConfig struct {
	Config      config.Config
	Resolver    Resolver
	Pipeline    Materializer
	Credentials CredentialSource
	Store       ManifestStore
	Reporter    Reporter
	Now         func() time.Time
}

// Engine orchestrates one sync run at a time.
type Engine struct {
	cfg      config.Config
	resolver Resolver
	pipeline Materializer
	creds    CredentialSource
	store    ManifestStore
	report   Reporter
	now      func() time.Time
}

// NewEngine creates an Engine from the given configuration.
func NewEngine(ec EngineConfig) *Engine {
	now := ec.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:      ec.Config,
		resolver: ec.Resolver,
		pipeline: ec.Pipeline,
		creds:    ec.Credentials,
		store:    ec.Store,
		report:   ec.Reporter,
		now:      now,
	}
}

// Run executes one full sync pass. Failures below the gallery level are
// recovered locally and recorded as skips; only manifest I/O is fatal. The
// manifest is written once, atomically, at the very end, so cancellation and
// crashes leave the previous manifest intact.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	started := e.now()
	sum := &Summary{StartedAt: started}

	prog := Progress{
		Status:         StatusSyncing,
		Phase:          PhaseInitializing,
		TotalGalleries: len(e.cfg.Galleries),
		StartedAt:      started,
	}
	e.report.emit(prog)

	m, err := e.store.Load()
	if err != nil {
		e.fail(prog, err)
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	prog.Phase = PhaseCredentials
	prog.Message = "loading credentials"
	e.report.emit(prog)
	rc := e.warmRunContext(ctx)

	for i, entry := range e.cfg.Galleries {
		if err := ctx.Err(); err != nil {
			e.fail(prog, err)
			return sum, err
		}

		name := entry.DisplayName()
		prog.Phase = PhaseFetching
		prog.CurrentGalleryIndex = i
		prog.CurrentGalleryName = name
		prog.TotalPhotos = 0
		prog.CurrentPhotoIndex = 0
		prog.CurrentPhotoName = ""
		prog.Message = "fetching " + name
		e.report.emit(prog)

		gallery, skipReason, err := e.resolveEntry(ctx, rc, entry)
		if err != nil {
			if ctx.Err() != nil {
				e.fail(prog, ctx.Err())
				return sum, ctx.Err()
			}
			slog.Warn("gallery resolution failed, continuing", "gallery", name, "error", err)
			sum.skip(name, err.Error())
			continue
		}
		if skipReason != "" {
			slog.Warn("gallery skipped", "gallery", name, "reason", skipReason)
			sum.skip(name, skipReason)
			continue
		}

		if !tagMatches(e.cfg.SyncTag, entry, gallery) {
			slog.Info("gallery does not match sync tag, skipping", "gallery", gallery.Title, "tag", e.cfg.SyncTag)
			sum.skip(name, "tag filter")
			continue
		}

		// Public share assets are fetched only now, so a filtered-out gallery
		// never pays for the per-asset detail requests.
		if !entry.IsPrivate() {
			assets, err := e.resolver.ShareAssets(ctx, gallery)
			if err != nil {
				if ctx.Err() != nil {
					e.fail(prog, ctx.Err())
					return sum, ctx.Err()
				}
				slog.Warn("share asset listing failed, continuing", "gallery", name, "error", err)
				sum.skip(name, err.Error())
				continue
			}
			gallery.Assets = assets
		}

		album, photos := e.processGallery(ctx, rc, entry, gallery, &m, &prog, sum)
		if err := ctx.Err(); err != nil {
			e.fail(prog, err)
			return sum, err
		}

		m = manifest.UpdateAlbum(m, album)
		m = manifest.UpdatePhotos(m, album.ID, photos)
		sum.Albums++
		sum.Photos += len(photos)

		slog.Info("gallery synced", "album", album.Title, "slug", album.Slug, "photos", len(photos))
	}

	if err := e.store.Save(m); err != nil {
		e.fail(prog, err)
		return nil, fmt.Errorf("save manifest: %w", err)
	}

	completed := e.now()
	sum.CompletedAt = completed
	prog.Status = StatusCompleted
	prog.Phase = PhaseComplete
	prog.CompletedAt = &completed
	prog.Message = fmt.Sprintf("synced %d albums, %d photos", sum.Albums, sum.Photos)
	e.report.emit(prog)

	return sum, nil
}

func (e *Engine) fail(prog Progress, err error) {
	completed := e.now()
	prog.Status = StatusError
	prog.CompletedAt = &completed
	prog.Error = err.Error()
	prog.Message = "sync failed"
	e.report.emit(prog)
}

// warmRunContext loads credentials and the authenticated-metadata caches.
// Best-effort: every failure here degrades to public-only syncing.
func (e *Engine) warmRunContext(ctx context.Context) *runContext {
	rc := &runContext{}

	tok, err := e.creds.Load()
	if err != nil {
		slog.Warn("credentials unavailable, public mode only", "error", err)
		return rc
	}
	if tok == nil {
		slog.Info("no stored credentials, public mode only")
		return rc
	}
	if tok.Expired() {
		slog.Warn("stored credentials expired, skipping private-mode work", "expiresAt", tok.ExpiresAt)
		return rc
	}
	rc.Token = tok.AccessToken

	catalogID, err := e.resolver.CatalogID(ctx, rc.Token)
	if err != nil {
		slog.Warn("catalog id fetch failed, private-mode entries will be skipped", "error", err)
		return rc
	}
	rc.CatalogID = catalogID

	titles, err := e.resolver.AccountAssetTitles(ctx, rc.Token, rc.CatalogID)
	if err != nil {
		slog.Warn("asset title cache unavailable", "error", err)
		return rc
	}
	rc.AssetTitles = titles
	slog.Debug("warmed authenticated metadata cache", "assets", len(titles))
	return rc
}

// resolveEntry dispatches to the correct resolver path. A non-empty
// skipReason means the entry is skipped without counting as an error.
func (e *Engine) resolveEntry(ctx context.Context, rc *runContext, entry config.GalleryEntry) (*lightroom.Gallery, string, error) {
	if entry.IsPrivate() {
		if rc.Token == "" {
			return nil, "credentials missing or expired", nil
		}
		if rc.CatalogID == "" {
			return nil, "catalog unavailable", nil
		}
		gallery, err := e.resolver.ListAlbumAssets(ctx, rc.Token, rc.CatalogID, entry.AlbumID)
		if err != nil {
			return nil, "", err
		}
		if gallery.Title == "" {
			gallery.Title = entry.AlbumName
		}
		return gallery, "", nil
	}

	gallery, err := e.resolver.ResolveShare(ctx, entry.URL)
	if err != nil {
		return nil, "", err
	}
	return gallery, "", nil
}

func tagMatches(syncTag string, entry config.GalleryEntry, g *lightroom.Gallery) bool {
	if syncTag == "" {
		return true
	}
	needle := strings.ToLower(syncTag)
	for _, hay := range []string{entry.Tag, g.Title, g.Description} {
		if hay != "" && strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// photoResult is one per-asset outcome, slotted by upstream listing index so
// sort order never depends on completion order.
type photoResult struct {
	photo      *manifest.Photo
	taken      time.Time
	takenOK    bool
	place      string
	skipReason string
}

// processGallery turns a resolved gallery into an album record and its photo
// list. Per-asset failures drop that photo only.
func (e *Engine) processGallery(ctx context.Context, rc *runContext, entry config.GalleryEntry, gallery *lightroom.Gallery, m *manifest.Manifest, prog *Progress, sum *Summary) (manifest.Album, []manifest.Photo) {
	galleryURL := entry.URL
	if entry.IsPrivate() {
		galleryURL = "private:" + entry.AlbumID
	}

	slug := uniqueSlug(gallery.Title, galleryURL, existingSlugs(m))

	prog.Phase = PhaseDownloading
	prog.TotalPhotos = len(gallery.Assets)
	e.report.emit(*prog)

	slots := make([]photoResult, len(gallery.Assets))

	process := func(i int) {
		asset := &gallery.Assets[i]
		slots[i] = e.processAsset(ctx, rc, asset, gallery.ID, slug)
	}

	if e.cfg.MaxWorkers > 1 {
		pool := pond.NewPool(e.cfg.MaxWorkers, pond.WithContext(ctx))
		for i := range gallery.Assets {
			pool.Submit(func() { process(i) })
		}
		_ = pool.Stop().Wait()
	} else {
		for i := range gallery.Assets {
			if ctx.Err() != nil {
				break
			}
			prog.CurrentPhotoIndex = i
			prog.CurrentPhotoName = photoName(&gallery.Assets[i])
			prog.Message = fmt.Sprintf("photo %d/%d", i+1, len(gallery.Assets))
			e.report.emit(*prog)
			process(i)
		}
	}

	prog.Phase = PhaseProcessing
	e.report.emit(*prog)

	var photos []manifest.Photo
	var captures []time.Time
	var places []string
	for i, res := range slots {
		if res.photo == nil {
			reason := res.skipReason
			if reason == "" {
				reason = "not processed"
			}
			sum.skip(photoName(&gallery.Assets[i]), reason)
			continue
		}
		res.photo.SortOrder = len(photos)
		photos = append(photos, *res.photo)
		if res.takenOK {
			captures = append(captures, res.taken)
		}
		if res.place != "" {
			places = append(places, res.place)
		}
	}

	album := manifest.Album{
		ID:          gallery.ID,
		Slug:        slug,
		Title:       gallery.Title,
		Description: gallery.Description,
		Location:    DeriveLocation(gallery.Title, places),
		Date:        DeriveDateLabel(gallery.Title, captures, e.now()),
		PhotoCount:  len(photos),
		Featured:    entry.Featured,
		GalleryURL:  galleryURL,
		LastSynced:  e.now(),
	}

	if len(photos) > 0 {
		album.CoverImage = photos[0].Src.Medium
	}

	// Manually curated album fields survive a re-sync: a curated cover wins as
	// long as it still points at a photo in the new set, and subtitle or
	// description overrides are kept when the vendor supplies none.
	if existing := m.AlbumByID(gallery.ID); existing != nil {
		if existing.CoverImage != "" && coverStillValid(existing.CoverImage, photos) {
			album.CoverImage = existing.CoverImage
		}
		if album.Description == "" {
			album.Description = existing.Description
		}
		album.Subtitle = existing.Subtitle
	}

	return album, photos
}

// processAsset handles one asset: rendition lookup, variant materialization,
// metadata normalization.
func (e *Engine) processAsset(ctx context.Context, rc *runContext, asset *lightroom.Asset, albumID, slug string) photoResult {
	id := asset.ID()

	var srcURL string
	if asset.Mode == lightroom.ModePrivate {
		u, err := e.resolver.PrivateRenditionURL(ctx, rc.Token, rc.CatalogID, id)
		if err != nil {
			slog.Warn("rendition resolution failed, skipping photo", "asset", id, "error", err)
			return photoResult{skipReason: "rendition resolution failed"}
		}
		srcURL = u
	} else {
		srcURL = asset.RenditionURL()
		if srcURL == "" {
			// Some shares expose only small renditions.
			srcURL = asset.ThumbnailURL()
		}
	}
	if srcURL == "" {
		slog.Warn("no usable rendition, skipping photo", "asset", id)
		return photoResult{skipReason: "no usable rendition"}
	}

	variants, err := e.pipeline.Materialize(ctx, srcURL, slug, id)
	if err != nil {
		slog.Warn("variant materialization failed, skipping photo", "asset", id, "error", err)
		return photoResult{skipReason: "materialization failed"}
	}

	title, caption := asset.Title(), asset.Caption()
	if cached, ok := rc.AssetTitles[id]; ok {
		if title == "" {
			title = cached.Title
		}
		if caption == "" {
			caption = cached.Caption
		}
	}
	if title == "" {
		title = asset.FileName()
	}
	if title == "" {
		title = id
	}

	taken, takenOK := captureTime(asset, variants.TakenAt)

	photo := &manifest.Photo{
		ID:          id,
		Title:       title,
		Description: caption,
		Src: manifest.Sources{
			Thumb:    variants.Thumb,
			Medium:   variants.Medium,
			Full:     variants.Full,
			Original: srcURL,
		},
		Metadata: photoMetadata(asset, variants.TakenAt),
		AlbumID:  albumID,
	}

	return photoResult{
		photo:   photo,
		taken:   taken,
		takenOK: takenOK,
		place:   PlaceLabel(asset.Location()),
	}
}

func photoName(asset *lightroom.Asset) string {
	if t := asset.Title(); t != "" {
		return t
	}
	if f := asset.FileName(); f != "" {
		return f
	}
	return asset.ID()
}

func existingSlugs(m *manifest.Manifest) map[string]string {
	out := make(map[string]string, len(m.Albums))
	for _, a := range m.Albums {
		out[a.GalleryURL] = a.Slug
	}
	return out
}

func coverStillValid(cover string, photos []manifest.Photo) bool {
	for _, p := range photos {
		if p.Src.Thumb == cover || p.Src.Medium == cover || p.Src.Full == cover {
			return true
		}
	}
	return false
}

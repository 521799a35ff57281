// Package images derives the fixed-size JPEG variants the rendering layer
// serves: a square thumbnail crop, a medium and a full width-bounded resize.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	variantThumb  = "thumb"
	variantMedium = "medium"
	variantFull   = "full"
)

// Variants holds the relative output paths for one materialized asset. The
// path scheme {albumSlug}/{variant}/{assetID}.jpg is part of the manifest
// contract.
type Variants struct {
	Thumb  string
	Medium string
	Full   string

	// TakenAt is the capture time read from the downloaded bytes, when the
	// image actually had to be downloaded and carried EXIF. Zero otherwise.
	TakenAt time.Time
}

// Config holds the settings needed to create a Pipeline.
type Config struct {
	OutputDir string
	APIKey    string // sent only to hosts under APIDomain
	APIDomain string
	Quality   int // JPEG quality, default 85
	ThumbSize int // square crop edge, default 400
	MediumW   int // medium width bound, default 800
	FullW     int // full width bound, default 1600
}

// Pipeline downloads an original once and derives the three variants from
// the same decoded buffer.
type Pipeline struct {
	outputDir string
	apiKey    string
	apiDomain string
	quality   int
	thumbSize int
	mediumW   int
	fullW     int

	http *retryablehttp.Client
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	quality := cfg.Quality
	if quality <= 0 {
		quality = 85
	}
	thumbSize := cfg.ThumbSize
	if thumbSize <= 0 {
		thumbSize = 400
	}
	mediumW := cfg.MediumW
	if mediumW <= 0 {
		mediumW = 800
	}
	fullW := cfg.FullW
	if fullW <= 0 {
		fullW = 1600
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = time.Second
	rc.RetryWaitMax = 15 * time.Second
	rc.HTTPClient.Timeout = 2 * time.Minute
	rc.Logger = nil

	return &Pipeline{
		outputDir: cfg.OutputDir,
		apiKey:    cfg.APIKey,
		apiDomain: cfg.APIDomain,
		quality:   quality,
		thumbSize: thumbSize,
		mediumW:   mediumW,
		fullW:     fullW,
		http:      rc,
	}
}

// relPaths returns the three well-known relative paths for a slug+asset pair.
func relPaths(albumSlug, assetID string) Variants {
	return Variants{
		Thumb:  path.Join(albumSlug, variantThumb, assetID+".jpg"),
		Medium: path.Join(albumSlug, variantMedium, assetID+".jpg"),
		Full:   path.Join(albumSlug, variantFull, assetID+".jpg"),
	}
}

// Materialize downloads the source bytes once and writes the three variants.
// When the thumb variant already exists on disk the whole operation is
// skipped and the well-known paths are returned; this check is what makes
// repeated syncs cheap.
func (p *Pipeline) Materialize(ctx context.Context, srcURL, albumSlug, assetID string) (*Variants, error) {
	out := relPaths(albumSlug, assetID)

	if _, err := os.Stat(filepath.Join(p.outputDir, filepath.FromSlash(out.Thumb))); err == nil {
		return &out, nil
	}

	data, err := p.download(ctx, srcURL)
	if err != nil {
		return nil, fmt.Errorf("download original: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode original: %w", err)
	}

	if taken, ok := CaptureTime(bytes.NewReader(data)); ok {
		out.TakenAt = taken
	}

	width := img.Bounds().Dx()

	// Cover-fit square crop for the thumb; width-bounded, aspect-preserving
	// resizes for medium and full. Never upscale.
	var thumb, medium, full image.Image
	thumb = imaging.Fill(img, p.thumbSize, p.thumbSize, imaging.Center, imaging.Lanczos)
	medium = img
	if width > p.mediumW {
		medium = imaging.Resize(img, p.mediumW, 0, imaging.Lanczos)
	}
	full = img
	if width > p.fullW {
		full = imaging.Resize(img, p.fullW, 0, imaging.Lanczos)
	}

	for rel, variant := range map[string]image.Image{
		out.Thumb:  thumb,
		out.Medium: medium,
		out.Full:   full,
	} {
		if err := p.write(rel, variant); err != nil {
			return nil, fmt.Errorf("write %s: %w", rel, err)
		}
	}

	return &out, nil
}

// download fetches the original bytes, attaching the vendor API key only when
// the source host belongs to the vendor's API domain. Rendition URLs often
// point at third-party CDN hosts that must never see the key.
func (p *Pipeline) download(ctx context.Context, srcURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, err
	}
	if p.apiKey != "" && p.hostAllowed(srcURL) {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (p *Pipeline) hostAllowed(rawURL string) bool {
	if p.apiDomain == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == p.apiDomain || strings.HasSuffix(host, "."+p.apiDomain)
}

// write encodes one variant to a temp file and renames it into place, so a
// concurrent reader or a crash never observes a half-written JPEG.
func (p *Pipeline) write(rel string, img image.Image) error {
	dst := filepath.Join(p.outputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".variant-*")
	if err != nil {
		return err
	}

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

package lightroom

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ResolveShare fetches a public share link and scrapes the page HTML for the
// space/album identifiers, title, and description. The returned gallery
// carries no assets yet; callers that want them (after any filtering on the
// album-level fields) follow up with ShareAssets.
func (c *Client) ResolveShare(ctx context.Context, shareURL string) (*Gallery, error) {
	html, err := c.get(ctx, shareURL, "")
	if err != nil {
		return nil, fmt.Errorf("fetch share page: %w", err)
	}

	info, err := parseSharePage(html)
	if err != nil {
		return nil, fmt.Errorf("parse share page: %w", err)
	}

	return &Gallery{
		ID:          galleryID(info),
		Title:       info.Title,
		Description: info.Description,
		share:       &info,
	}, nil
}

// ShareAssets fetches the ordered asset list for a gallery returned by
// ResolveShare: the assets listing, then per-asset details through the
// unauthenticated API surface.
func (c *Client) ShareAssets(ctx context.Context, g *Gallery) ([]Asset, error) {
	if g == nil || g.share == nil {
		return nil, fmt.Errorf("gallery was not resolved from a share link")
	}
	info := *g.share

	listing, err := c.listShareAssets(ctx, info)
	if err != nil {
		return nil, err
	}

	// The listing endpoint returns bare summaries; title, caption, EXIF and
	// location only exist on the per-asset detail response.
	var assets []Asset
	for _, raw := range listing.Resources {
		var envelope publicAssetEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			slog.Warn("skipping unparsable asset summary", "space", info.SpaceID, "error", err)
			continue
		}
		if envelope.Asset.ID == "" {
			continue
		}

		detail, err := c.fetchAssetDetail(ctx, info.SpaceID, envelope.Asset.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("skipping asset, detail fetch failed", "asset", envelope.Asset.ID, "error", err)
			continue
		}
		assets = append(assets, detail)
	}

	return assets, nil
}

// listShareAssets queries the album-scoped assets listing and falls back to
// the space-scoped one. Some shares expose assets without an album
// subdivision, in which case the album query 404s.
func (c *Client) listShareAssets(ctx context.Context, info shareInfo) (*listingResponse, error) {
	if info.AlbumID != "" {
		albumURL := fmt.Sprintf("%s/v2c/spaces/%s/albums/%s/assets?subtype=image&embed=asset", c.webBase, info.SpaceID, info.AlbumID)
		var listing listingResponse
		if err := c.getJSON(ctx, albumURL, "", &listing); err == nil {
			return &listing, nil
		} else {
			slog.Debug("album assets query failed, retrying space-scoped", "space", info.SpaceID, "album", info.AlbumID, "error", err)
		}
	}

	spaceURL := fmt.Sprintf("%s/v2c/spaces/%s/assets?subtype=image&embed=asset", c.webBase, info.SpaceID)
	var listing listingResponse
	if err := c.getJSON(ctx, spaceURL, "", &listing); err != nil {
		return nil, fmt.Errorf("list share assets: %w", err)
	}
	return &listing, nil
}

// fetchAssetDetail retrieves one asset with embedded renditions.
func (c *Client) fetchAssetDetail(ctx context.Context, spaceID, assetID string) (Asset, error) {
	detailURL := fmt.Sprintf("%s/v2c/spaces/%s/assets/%s?embed=renditions", c.webBase, spaceID, assetID)

	var detail struct {
		Base string `json:"base"`
		publicAsset
	}
	if err := c.getJSON(ctx, detailURL, "", &detail); err != nil {
		return Asset{}, err
	}
	if detail.ID == "" {
		detail.ID = assetID
	}
	return assetFromPublic(detail.Base, detail.publicAsset), nil
}

func galleryID(info shareInfo) string {
	if info.AlbumID != "" {
		return info.AlbumID
	}
	return info.SpaceID
}

package lightroom

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// CatalogID fetches the account's catalog id. Callers cache it for the
// remainder of a run; the client itself stays stateless.
func (c *Client) CatalogID(ctx context.Context, token string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, c.webBase+"/v2/catalog", token, &resp); err != nil {
		return "", fmt.Errorf("fetch catalog: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("catalog response missing id")
	}
	return resp.ID, nil
}

// ListAlbumAssets fetches one private album with its ordered asset list. The
// catalog listing already embeds full payload metadata, so no per-asset
// detail fetch is needed in this mode.
func (c *Client) ListAlbumAssets(ctx context.Context, token, catalogID, albumID string) (*Gallery, error) {
	gallery := &Gallery{ID: albumID}

	albumURL := fmt.Sprintf("%s/v2/catalogs/%s/albums/%s", c.webBase, catalogID, albumID)
	var album struct {
		Payload payload `json:"payload"`
	}
	if err := c.getJSON(ctx, albumURL, token, &album); err != nil {
		slog.Debug("album info fetch failed, continuing without title", "album", albumID, "error", err)
	} else {
		gallery.Title = album.Payload.Name
	}

	assetsURL := fmt.Sprintf("%s/v2/catalogs/%s/albums/%s/assets?subtype=image&embed=asset", c.webBase, catalogID, albumID)
	var listing listingResponse
	if err := c.getJSON(ctx, assetsURL, token, &listing); err != nil {
		return nil, fmt.Errorf("list album assets: %w", err)
	}

	for _, raw := range listing.Resources {
		var envelope privateAssetEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			slog.Warn("skipping unparsable catalog asset", "album", albumID, "error", err)
			continue
		}
		if envelope.Asset.ID == "" {
			continue
		}
		gallery.Assets = append(gallery.Assets, assetFromPrivate(envelope.Asset))
	}

	return gallery, nil
}

// AccountAssetTitles fetches a map of asset id to title/caption across the
// whole catalog. The orchestrator warms this cache once per run to enrich
// public-mode assets whose share payload carries no title.
func (c *Client) AccountAssetTitles(ctx context.Context, token, catalogID string) (map[string]TitleCaption, error) {
	assetsURL := fmt.Sprintf("%s/v2/catalogs/%s/assets?subtype=image&embed=asset", c.webBase, catalogID)
	var listing listingResponse
	if err := c.getJSON(ctx, assetsURL, token, &listing); err != nil {
		return nil, fmt.Errorf("list catalog assets: %w", err)
	}

	titles := make(map[string]TitleCaption, len(listing.Resources))
	for _, raw := range listing.Resources {
		var envelope privateAssetEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			continue
		}
		asset := assetFromPrivate(envelope.Asset)
		if asset.ID() == "" {
			continue
		}
		if title, caption := asset.Title(), asset.Caption(); title != "" || caption != "" {
			titles[asset.ID()] = TitleCaption{Title: title, Caption: caption}
		}
	}
	return titles, nil
}

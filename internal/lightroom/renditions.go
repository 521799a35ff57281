package lightroom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Rendition link relations in preference order. 2048px is the largest
// rendition the vendor generates for shares.
var (
	fullRels  = []string{"/rels/rendition_type/2048", "/rels/rendition_type/1280"}
	thumbRels = []string{"/rels/rendition_type/640", "/rels/rendition_type/thumbnail2x"}
)

// RenditionURL resolves the main downloadable image URL for a public-mode
// asset: the response-supplied base URL joined with the preferred link
// relation. Returns the empty string when no usable rendition exists.
func (a *Asset) RenditionURL() string {
	return a.linkURL(fullRels)
}

// ThumbnailURL resolves a small rendition for a public-mode asset, reusing
// the main image URL when no thumbnail relation exists.
func (a *Asset) ThumbnailURL() string {
	if u := a.linkURL(thumbRels); u != "" {
		return u
	}
	return a.RenditionURL()
}

func (a *Asset) linkURL(rels []string) string {
	for _, rel := range rels {
		link, ok := a.Links[rel]
		if !ok || link.Href == "" {
			continue
		}
		return joinURL(a.BaseURL, link.Href)
	}
	return ""
}

// joinURL resolves href against base the way the vendor web client does:
// absolute hrefs win, everything else concatenates onto the response base.
func joinURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// PrivateRenditionURL requests the fixed 2048px rendition for a private-mode
// asset. The service usually answers with a redirect to the bytes location,
// but occasionally with a JSON body carrying the URL directly; both shapes
// are handled. Returns the empty string, not an error, when no usable
// rendition exists.
func (c *Client) PrivateRenditionURL(ctx context.Context, token, catalogID, assetID string) (string, error) {
	renditionURL := fmt.Sprintf("%s/v2/catalogs/%s/assets/%s/renditions/2048", c.webBase, catalogID, assetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, renditionURL, nil)
	if err != nil {
		return "", fmt.Errorf("create rendition request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("rendition request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", nil
		}
		return joinURL(renditionURL, loc), nil

	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return "", fmt.Errorf("read rendition response: %w", err)
		}
		var payload struct {
			Href string `json:"href"`
			URL  string `json:"url"`
		}
		if err := decodeVendorResponse(body, &payload); err != nil {
			return "", nil // neither redirect nor a JSON pointer; nothing usable
		}
		if payload.Href != "" {
			return joinURL(renditionURL, payload.Href), nil
		}
		return payload.URL, nil

	case resp.StatusCode == http.StatusNotFound:
		return "", nil

	default:
		return "", fmt.Errorf("rendition request: status %d", resp.StatusCode)
	}
}

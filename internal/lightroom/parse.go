package lightroom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Every vendor JSON response is prefixed with an anti-script guard that must
// be stripped before parsing. Spacing varies between endpoints.
var responsePrefixPattern = regexp.MustCompile(`^\s*while\s*\(\s*1\s*\)\s*\{\s*\}\s*`)

// StripResponsePrefix removes the anti-script prefix from a raw vendor
// response. Responses without the prefix pass through unchanged.
func StripResponsePrefix(raw []byte) []byte {
	loc := responsePrefixPattern.FindIndex(raw)
	if loc == nil {
		return bytes.TrimSpace(raw)
	}
	return bytes.TrimSpace(raw[loc[1]:])
}

// decodeVendorResponse strips the anti-script prefix and unmarshals the rest.
// This is the single boundary between raw vendor bytes and typed values.
func decodeVendorResponse(raw []byte, v any) error {
	data := StripResponsePrefix(raw)
	if len(data) == 0 {
		return fmt.Errorf("empty vendor response")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode vendor response: %w", err)
	}
	return nil
}

// Share page scraping. The space id shows up either in an inline data
// attribute or inside an album-assets URL fragment; the album id likewise.
// The page structure is not versioned, so each value has fallbacks.
var (
	spaceIDAttrPattern  = regexp.MustCompile(`data-space-id="([0-9a-f]{8,})"`)
	spaceIDURLPattern   = regexp.MustCompile(`/spaces/([0-9a-f]{8,})/`)
	albumIDAttrPattern  = regexp.MustCompile(`data-album-id="([0-9a-f]{8,})"`)
	albumIDURLPattern   = regexp.MustCompile(`/albums/([0-9a-f]{8,})/assets`)
	inlineNamePattern   = regexp.MustCompile(`"(?:albumName|spaceName)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	pageTitlePattern    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	inlineDescPattern   = regexp.MustCompile(`"description"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	pageTitleSuffixList = []string{" | Adobe Lightroom", " | Lightroom"}
)

// shareInfo is everything scraped from a share page.
type shareInfo struct {
	SpaceID     string
	AlbumID     string
	Title       string
	Description string
}

// parseSharePage digs the space/album identifiers and album name out of the
// share page HTML.
func parseSharePage(html []byte) (shareInfo, error) {
	var info shareInfo

	if m := spaceIDAttrPattern.FindSubmatch(html); m != nil {
		info.SpaceID = string(m[1])
	} else if m := spaceIDURLPattern.FindSubmatch(html); m != nil {
		info.SpaceID = string(m[1])
	}
	if info.SpaceID == "" {
		return info, fmt.Errorf("no space id found in share page")
	}

	if m := albumIDAttrPattern.FindSubmatch(html); m != nil {
		info.AlbumID = string(m[1])
	} else if m := albumIDURLPattern.FindSubmatch(html); m != nil {
		info.AlbumID = string(m[1])
	}

	if m := inlineNamePattern.FindSubmatch(html); m != nil {
		info.Title = unescapeInline(string(m[1]))
	} else if m := pageTitlePattern.FindSubmatch(html); m != nil {
		info.Title = stripTitleSuffix(strings.TrimSpace(string(m[1])))
	}

	if m := inlineDescPattern.FindSubmatch(html); m != nil {
		info.Description = unescapeInline(string(m[1]))
	}

	return info, nil
}

func stripTitleSuffix(title string) string {
	for _, suffix := range pageTitleSuffixList {
		if strings.HasSuffix(title, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(title, suffix))
		}
	}
	return title
}

func unescapeInline(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

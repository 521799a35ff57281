package syncer

import (
	"fmt"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from an album title.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "album"
	}
	return slug
}

// uniqueSlug keeps an album's slug stable across re-syncs of the same source
// (external links must not break) while avoiding collisions between
// different sources: an existing album with the same gallery URL keeps its
// slug, otherwise the title-derived slug gets a numeric suffix until free.
func uniqueSlug(title, galleryURL string, existing map[string]string) string {
	if slug, ok := existing[galleryURL]; ok && slug != "" {
		return slug
	}

	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s] = true
	}

	slug := Slugify(title)
	if !taken[slug] {
		return slug
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

package syncer

import "lrsync/internal/lightroom"

// runContext carries the caches populated once at run start and read-only
// afterwards. It replaces ambient global state; a fresh value is built for
// every run.
type runContext struct {
	// Token is empty when credentials are missing or expired; private-mode
	// entries are skipped for the run in that case.
	Token string

	// CatalogID is the account catalog id, fetched at most once per run.
	CatalogID string

	// AssetTitles maps asset id to title/caption from the authenticated
	// catalog, used to enrich public-mode assets. Best-effort: empty when
	// credentials are unavailable.
	AssetTitles map[string]lightroom.TitleCaption
}

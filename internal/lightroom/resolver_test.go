package lightroom

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const (
	testSpaceID = "aaaa1111bbbb2222"
	testAlbumID = "cccc3333dddd4444"
)

func vendorJSON(w http.ResponseWriter, body string) {
	fmt.Fprint(w, "while (1) {}\n"+body)
}

// shareServer fakes the public share surface: the share page, the assets
// listings, and per-asset details.
func shareServer(t *testing.T, albumScoped bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/shares/trip", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>Iceland - October 2023 | Adobe Lightroom</title></head>
<body><div data-space-id=%q data-album-id=%q></div></body></html>`, testSpaceID, testAlbumID)
	})

	listing := `{"base":"BASE","resources":[{"asset":{"id":"asset-1"}},{"asset":{"id":"asset-2"}}]}`
	mux.HandleFunc("/v2c/spaces/"+testSpaceID+"/albums/"+testAlbumID+"/assets", func(w http.ResponseWriter, r *http.Request) {
		if !albumScoped {
			http.NotFound(w, r)
			return
		}
		vendorJSON(w, listing)
	})
	mux.HandleFunc("/v2c/spaces/"+testSpaceID+"/assets", func(w http.ResponseWriter, r *http.Request) {
		vendorJSON(w, listing)
	})

	detail := func(id, title string) string {
		return fmt.Sprintf(`{
			"base": "https://cdn.example/renditions/",
			"id": %q,
			"links": {
				"/rels/rendition_type/2048": {"href": "%s/2048"},
				"/rels/rendition_type/640": {"href": "%s/640"}
			},
			"payload": {
				"captureDate": "2023-10-14T10:30:00Z",
				"xmp": {"dc": {"title": [%q]}, "exif": {"FNumber": [2.8]}}
			}
		}`, id, id, id, title)
	}
	mux.HandleFunc("/v2c/spaces/"+testSpaceID+"/assets/asset-1", func(w http.ResponseWriter, r *http.Request) {
		vendorJSON(w, detail("asset-1", "First"))
	})
	mux.HandleFunc("/v2c/spaces/"+testSpaceID+"/assets/asset-2", func(w http.ResponseWriter, r *http.Request) {
		vendorJSON(w, detail("asset-2", "Second"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveShareAlbumScoped(t *testing.T) {
	srv := shareServer(t, true)
	c := New(Config{WebBase: srv.URL})

	g, err := c.ResolveShare(context.Background(), srv.URL+"/shares/trip")
	if err != nil {
		t.Fatalf("resolve share: %v", err)
	}

	if g.Title != "Iceland - October 2023" {
		t.Errorf("title: got %q", g.Title)
	}
	if g.ID != testAlbumID {
		t.Errorf("gallery id: got %q", g.ID)
	}
	if len(g.Assets) != 0 {
		t.Fatalf("resolve alone must not fetch assets, got %d", len(g.Assets))
	}

	assets, err := c.ShareAssets(context.Background(), g)
	if err != nil {
		t.Fatalf("share assets: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].ID() != "asset-1" || assets[1].ID() != "asset-2" {
		t.Errorf("asset order not preserved: %q, %q", assets[0].ID(), assets[1].ID())
	}
	if assets[0].Title() != "First" {
		t.Errorf("detail metadata missing: title %q", assets[0].Title())
	}
	if got := assets[0].RenditionURL(); got != "https://cdn.example/renditions/asset-1/2048" {
		t.Errorf("rendition url: got %q", got)
	}
}

func TestResolveShareSpaceScopedFallback(t *testing.T) {
	srv := shareServer(t, false)
	c := New(Config{WebBase: srv.URL})

	g, err := c.ResolveShare(context.Background(), srv.URL+"/shares/trip")
	if err != nil {
		t.Fatalf("resolve share with fallback: %v", err)
	}
	assets, err := c.ShareAssets(context.Background(), g)
	if err != nil {
		t.Fatalf("share assets with fallback: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("fallback listing not used, got %d assets", len(assets))
	}
}

func TestShareAssetsRequiresResolvedGallery(t *testing.T) {
	c := New(Config{})
	if _, err := c.ShareAssets(context.Background(), &Gallery{ID: "alb-1"}); err == nil {
		t.Fatal("expected error for a gallery without share info")
	}
}

func TestListAlbumAssetsPrivate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/catalogs/cat-1/albums/alb-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		vendorJSON(w, `{"payload":{"name":"Iceland"}}`)
	})
	mux.HandleFunc("/v2/catalogs/cat-1/albums/alb-1/assets", func(w http.ResponseWriter, r *http.Request) {
		vendorJSON(w, `{"resources":[
			{"asset":{"id":"a1","payload":{"xmp":{"dc":{"title":"One"}}}}},
			{"asset":{"id":"a2","payload":{"xmp":{"dc":{"title":"Two"}}}}}
		]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(Config{WebBase: srv.URL})
	g, err := c.ListAlbumAssets(context.Background(), "tok", "cat-1", "alb-1")
	if err != nil {
		t.Fatalf("list album assets: %v", err)
	}
	if g.Title != "Iceland" {
		t.Errorf("album title: got %q", g.Title)
	}
	if len(g.Assets) != 2 || g.Assets[0].Title() != "One" {
		t.Fatalf("assets: got %+v", g.Assets)
	}
	if g.Assets[0].Mode != ModePrivate {
		t.Errorf("mode: got %q", g.Assets[0].Mode)
	}
}

func TestCatalogID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/catalog", func(w http.ResponseWriter, r *http.Request) {
		vendorJSON(w, `{"id":"cat-42"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(Config{WebBase: srv.URL})
	id, err := c.CatalogID(context.Background(), "tok")
	if err != nil {
		t.Fatalf("catalog id: %v", err)
	}
	if id != "cat-42" {
		t.Errorf("catalog id: got %q", id)
	}
}

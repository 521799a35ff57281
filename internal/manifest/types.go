package manifest

import "time"

// Sources holds the relative paths (or URLs) for each derived variant of a photo.
type Sources struct {
	Thumb    string `json:"thumb"`
	Medium   string `json:"medium"`
	Full     string `json:"full"`
	Original string `json:"original,omitempty"`
}

// GPS is an optional coordinate pair attached to photo metadata.
type GPS struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Metadata is the canonical per-photo metadata shape. All display fields are
// pre-formatted strings so the rendering layer never touches vendor values.
type Metadata struct {
	Date           string `json:"date,omitempty"`
	Location       string `json:"location,omitempty"`
	LocationDetail string `json:"location_detail,omitempty"`
	Camera         string `json:"camera,omitempty"`
	Lens           string `json:"lens,omitempty"`
	Aperture       string `json:"aperture,omitempty"`
	Shutter        string `json:"shutter,omitempty"`
	ISO            string `json:"iso,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	GPS            *GPS   `json:"gps,omitempty"`
}

// Photo is one synced photo belonging to exactly one album.
type Photo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Src         Sources  `json:"src"`
	Metadata    Metadata `json:"metadata"`
	AlbumID     string   `json:"album_id"`
	SortOrder   int      `json:"sort_order"`
}

// Album is the canonical record for one synced gallery.
type Album struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Date        string    `json:"date,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	PhotoCount  int       `json:"photo_count"`
	Featured    bool      `json:"featured"`
	GalleryURL  string    `json:"gallery_url"`
	LastSynced  time.Time `json:"last_synced"`
}

// Chapter is a curated sub-grouping of an album's photos. Chapters are never
// produced by sync, only preserved by it.
type Chapter struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Narrative string   `json:"narrative,omitempty"`
	PhotoIDs  []string `json:"photo_ids"`
}

// Manifest is the aggregate persisted after every full sync run and consumed
// by the rendering layer.
type Manifest struct {
	LastUpdated time.Time            `json:"last_updated"`
	Albums      []Album              `json:"albums"`
	Photos      []Photo              `json:"photos"`
	Chapters    map[string][]Chapter `json:"chapters,omitempty"`
}

// AlbumByID returns the album with the given id, or nil.
func (m *Manifest) AlbumByID(id string) *Album {
	for i := range m.Albums {
		if m.Albums[i].ID == id {
			return &m.Albums[i]
		}
	}
	return nil
}

// PhotosByAlbum returns the photos attached to the given album, in sort order.
func (m *Manifest) PhotosByAlbum(albumID string) []Photo {
	var out []Photo
	for _, p := range m.Photos {
		if p.AlbumID == albumID {
			out = append(out, p)
		}
	}
	return out
}

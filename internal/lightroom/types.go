package lightroom

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Mode selects which vendor code path an asset came from.
type Mode string

const (
	ModePublic  Mode = "public"
	ModePrivate Mode = "private"
)

// Gallery is the resolver output for one configured entry: the album-level
// fields plus the ordered asset list. The asset order is the upstream listing
// order and must be preserved by callers. Public-mode galleries come back
// from ResolveShare without assets; ShareAssets fills them in on demand so
// callers can filter on title and description before paying for the
// per-asset detail fetches.
type Gallery struct {
	ID          string
	Title       string
	Description string
	Assets      []Asset

	share *shareInfo
}

// TitleCaption is one entry of the authenticated-metadata warm cache.
type TitleCaption struct {
	Title   string
	Caption string
}

// Link is one link relation on an asset.
type Link struct {
	Href string `json:"href"`
}

// Place is a normalized location extracted from vendor payload.
type Place struct {
	Name      string
	City      string
	Country   string
	Lat       float64
	Lng       float64
	HasCoords bool
}

// Asset is the mode-tagged union of the two vendor asset shapes. Field digging
// into the vendor payload stays behind the accessor methods; nothing outside
// this package touches raw XMP.
type Asset struct {
	Mode    Mode
	AssetID string
	Payload payload

	// Public-mode rendition link info. Empty in private mode, where rendition
	// URLs come from the authenticated renditions endpoint instead.
	BaseURL string
	Links   map[string]Link
}

// publicAssetEnvelope wraps entries of a public listing response.
type publicAssetEnvelope struct {
	Asset publicAsset `json:"asset"`
}

type publicAsset struct {
	ID      string          `json:"id"`
	Links   map[string]Link `json:"links"`
	Payload payload         `json:"payload"`
}

// privateAssetEnvelope wraps entries of a catalog listing response.
type privateAssetEnvelope struct {
	Asset privateAsset `json:"asset"`
}

type privateAsset struct {
	ID      string  `json:"id"`
	Payload payload `json:"payload"`
}

// listingResponse is the common shape of asset listing endpoints.
type listingResponse struct {
	Base      string            `json:"base"`
	Resources []json.RawMessage `json:"resources"`
}

type payload struct {
	Name         string       `json:"name"`
	CaptureDate  string       `json:"captureDate"`
	Width        flexFloat    `json:"width"`
	Height       flexFloat    `json:"height"`
	ImportSource importSource `json:"importSource"`
	XMP          xmpPayload   `json:"xmp"`
	Location     *location    `json:"location"`
}

type importSource struct {
	FileName string `json:"fileName"`
}

type xmpPayload struct {
	DC   dcPayload   `json:"dc"`
	Tiff tiffPayload `json:"tiff"`
	Exif exifPayload `json:"exif"`
	Aux  auxPayload  `json:"aux"`
}

type dcPayload struct {
	Title       flexString `json:"title"`
	Description flexString `json:"description"`
}

type tiffPayload struct {
	Make  flexString `json:"Make"`
	Model flexString `json:"Model"`
}

type exifPayload struct {
	FNumber         flexFloat `json:"FNumber"`
	ExposureTime    flexFloat `json:"ExposureTime"`
	ISOSpeedRatings flexFloat `json:"ISOSpeedRatings"`
	FocalLength     flexFloat `json:"FocalLength"`
}

type auxPayload struct {
	Lens flexString `json:"Lens"`
}

type location struct {
	Name      flexString `json:"name"`
	City      flexString `json:"city"`
	Country   flexString `json:"country"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
}

// flexString accepts a JSON string or an array of strings, keeping the first
// element. The vendor emits either depending on auth mode.
type flexString struct {
	value string
	ok    bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) == 0 {
			return nil
		}
		data = bytes.TrimSpace(arr[0])
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Tolerate numeric titles and the like.
		var n json.Number
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return err
		}
		s = n.String()
	}
	f.value = s
	f.ok = s != ""
	return nil
}

// flexFloat accepts a JSON number, a numeric string, or an array of either,
// keeping the first element.
type flexFloat struct {
	value float64
	ok    bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) == 0 {
			return nil
		}
		data = bytes.TrimSpace(arr[0])
	}

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil // unparsable values degrade to absent, not an error
	}
	f.value = v
	f.ok = true
	return nil
}

func assetFromPublic(base string, a publicAsset) Asset {
	return Asset{
		Mode:    ModePublic,
		AssetID: a.ID,
		Payload: a.Payload,
		BaseURL: base,
		Links:   a.Links,
	}
}

func assetFromPrivate(a privateAsset) Asset {
	return Asset{
		Mode:    ModePrivate,
		AssetID: a.ID,
		Payload: a.Payload,
	}
}

// ID returns the opaque vendor asset id.
func (a *Asset) ID() string {
	return a.AssetID
}

// Title returns the asset title, or the empty string.
func (a *Asset) Title() string {
	return a.Payload.XMP.DC.Title.value
}

// Caption returns the asset caption/description, or the empty string.
func (a *Asset) Caption() string {
	return a.Payload.XMP.DC.Description.value
}

// FileName returns the original import file name, or the empty string.
func (a *Asset) FileName() string {
	return a.Payload.ImportSource.FileName
}

// CaptureTime parses the vendor capture timestamp. The vendor emits
// "0000-00-00T00:00:00" for unknown dates, which reports as absent.
func (a *Asset) CaptureTime() (time.Time, bool) {
	raw := a.Payload.CaptureDate
	if raw == "" || raw[0] == '0' {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Dimensions returns width and height in pixels, zero when absent.
func (a *Asset) Dimensions() (int, int) {
	return int(a.Payload.Width.value), int(a.Payload.Height.value)
}

// Camera returns "Make Model" when present.
func (a *Asset) Camera() string {
	mk, model := a.Payload.XMP.Tiff.Make.value, a.Payload.XMP.Tiff.Model.value
	switch {
	case mk != "" && model != "":
		return mk + " " + model
	case model != "":
		return model
	default:
		return mk
	}
}

// Lens returns the lens description, or the empty string.
func (a *Asset) Lens() string {
	return a.Payload.XMP.Aux.Lens.value
}

// Aperture returns the f-number.
func (a *Asset) Aperture() (float64, bool) {
	return a.Payload.XMP.Exif.FNumber.value, a.Payload.XMP.Exif.FNumber.ok
}

// ExposureSeconds returns the exposure time in seconds.
func (a *Asset) ExposureSeconds() (float64, bool) {
	return a.Payload.XMP.Exif.ExposureTime.value, a.Payload.XMP.Exif.ExposureTime.ok
}

// ISO returns the ISO speed rating.
func (a *Asset) ISO() (int, bool) {
	return int(a.Payload.XMP.Exif.ISOSpeedRatings.value), a.Payload.XMP.Exif.ISOSpeedRatings.ok
}

// FocalLength returns the focal length in millimeters.
func (a *Asset) FocalLength() (float64, bool) {
	return a.Payload.XMP.Exif.FocalLength.value, a.Payload.XMP.Exif.FocalLength.ok
}

// Location returns the asset location, or nil when absent.
func (a *Asset) Location() *Place {
	loc := a.Payload.Location
	if loc == nil {
		return nil
	}
	p := &Place{
		Name:    loc.Name.value,
		City:    loc.City.value,
		Country: loc.Country.value,
	}
	if loc.Latitude != nil && loc.Longitude != nil {
		p.Lat, p.Lng = *loc.Latitude, *loc.Longitude
		p.HasCoords = true
	}
	if p.Name == "" && p.City == "" && p.Country == "" && !p.HasCoords {
		return nil
	}
	return p
}

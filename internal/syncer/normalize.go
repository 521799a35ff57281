package syncer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lrsync/internal/lightroom"
	"lrsync/internal/manifest"
)

// FormatAperture renders an f-number for display: 2.8 -> "f/2.8", 8 -> "f/8".
func FormatAperture(f float64) string {
	rounded := math.Round(f*10) / 10
	return "f/" + strconv.FormatFloat(rounded, 'f', -1, 64)
}

// FormatShutter renders an exposure time: 0.004 -> "1/250s", 2 -> "2s".
func FormatShutter(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	if seconds >= 1 {
		return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
	}
	return fmt.Sprintf("1/%ds", int(math.Round(1/seconds)))
}

// FormatISO renders an ISO rating as an integer string.
func FormatISO(iso int) string {
	return strconv.Itoa(iso)
}

// FormatFocalLength renders a focal length: 35.0 -> "35mm".
func FormatFocalLength(mm float64) string {
	return fmt.Sprintf("%dmm", int(math.Round(mm)))
}

var monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// Title-encoded album labels look like "Iceland - October 2023".
var titleLabelPattern = newTitleLabel(monthNames)

// DeriveDateLabel picks the album date string: the title-encoded label when
// the title matches "<place> - <month> <year>", else a range computed from
// photo capture dates, else the current date as a last resort.
func DeriveDateLabel(title string, captures []time.Time, now time.Time) string {
	if _, label, ok := titleLabelPattern.match(title); ok {
		return label
	}
	if len(captures) == 0 {
		return now.Format("January 2006")
	}

	min, max := captures[0], captures[0]
	for _, t := range captures[1:] {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}

	switch {
	case min.Year() == max.Year() && min.Month() == max.Month():
		return min.Format("January 2006")
	case min.Year() == max.Year():
		return fmt.Sprintf("%s - %s %d", min.Format("Jan"), max.Format("Jan"), max.Year())
	default:
		return fmt.Sprintf("%s - %s", min.Format("Jan 2006"), max.Format("Jan 2006"))
	}
}

// DeriveLocation picks the album location: the place part of a title-encoded
// label, else the most frequent photo location (ties broken by first-seen
// order), else "Unknown".
func DeriveLocation(title string, places []string) string {
	if place, _, ok := titleLabelPattern.match(title); ok {
		return place
	}

	counts := make(map[string]int)
	var order []string
	for _, p := range places {
		if p == "" {
			continue
		}
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}

	best := ""
	for _, p := range order {
		if best == "" || counts[p] > counts[best] {
			best = p
		}
	}
	if best == "" {
		return "Unknown"
	}
	return best
}

// PlaceLabel renders a vendor location as "city, country", bare country, or
// the location name.
func PlaceLabel(p *lightroom.Place) string {
	if p == nil {
		return ""
	}
	switch {
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.Country != "":
		return p.Country
	case p.City != "":
		return p.City
	default:
		return p.Name
	}
}

// photoMetadata maps one vendor asset into the canonical metadata shape. All
// vendor-specific digging stays behind the asset accessors; this function
// only formats.
func photoMetadata(asset *lightroom.Asset, fallbackTaken time.Time) manifest.Metadata {
	md := manifest.Metadata{
		Camera: asset.Camera(),
		Lens:   asset.Lens(),
	}

	taken, ok := asset.CaptureTime()
	if !ok && !fallbackTaken.IsZero() {
		taken, ok = fallbackTaken, true
	}
	if ok {
		md.Date = taken.Format("January 2, 2006")
	}

	if v, ok := asset.Aperture(); ok {
		md.Aperture = FormatAperture(v)
	}
	if v, ok := asset.ExposureSeconds(); ok {
		md.Shutter = FormatShutter(v)
	}
	if v, ok := asset.ISO(); ok {
		md.ISO = FormatISO(v)
	}

	md.Width, md.Height = asset.Dimensions()

	if place := asset.Location(); place != nil {
		md.Location = PlaceLabel(place)
		md.LocationDetail = place.Name
		if place.HasCoords {
			md.GPS = &manifest.GPS{Lat: place.Lat, Lng: place.Lng}
		}
	}

	return md
}

// captureTime returns the asset capture time with the pipeline EXIF fallback.
func captureTime(asset *lightroom.Asset, fallback time.Time) (time.Time, bool) {
	if t, ok := asset.CaptureTime(); ok {
		return t, true
	}
	if !fallback.IsZero() {
		return fallback, true
	}
	return time.Time{}, false
}

// titleLabel matches "<place> - <month> <year>" album titles.
type titleLabel struct {
	months map[string]bool
}

func newTitleLabel(months string) *titleLabel {
	set := make(map[string]bool)
	for _, m := range strings.Split(months, "|") {
		set[m] = true
	}
	return &titleLabel{months: set}
}

// match splits a title on the last " - " separator and accepts the tail only
// when it is exactly "<Month> <year>".
func (tl *titleLabel) match(title string) (place, label string, ok bool) {
	idx := strings.LastIndex(title, " - ")
	if idx < 1 {
		return "", "", false
	}
	place = strings.TrimSpace(title[:idx])
	label = strings.TrimSpace(title[idx+3:])

	parts := strings.Fields(label)
	if len(parts) != 2 || !tl.months[parts[0]] {
		return "", "", false
	}
	if y, err := strconv.Atoi(parts[1]); err != nil || y < 1000 || y > 9999 {
		return "", "", false
	}
	return place, label, true
}

package images

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureTime reads the capture timestamp from image bytes. Used as a
// fallback when the vendor payload carries no capture date; failures just
// report absent.
func CaptureTime(r io.Reader) (time.Time, bool) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

package imaging

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is what the page body and title need from an image. Empty fields
// are absent.
type Metadata struct {
	CaptureDate string // YYYY-MM-DD
	CameraModel string
	LensModel   string
}

// dateFields are tried in order: when the shutter fired, when the image was
// digitized, then the container's modification date.
var dateFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime}

// ExtractMetadata reads capture date and camera/lens models from the EXIF
// block of data. Images without EXIF give an empty Metadata.
func ExtractMetadata(data []byte) Metadata {
	// A broken sub-IFD still yields the fields decoded so far.
	x, _ := exif.Decode(bytes.NewReader(data))
	if x == nil {
		return Metadata{}
	}

	var md Metadata
	for _, field := range dateFields {
		if v := stringField(x, field); v != "" {
			md.CaptureDate = normalizeDate(v)
			break
		}
	}
	md.CameraModel = stringField(x, exif.Model)
	md.LensModel = stringField(x, exif.LensModel)
	return md
}

func stringField(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(v, "\x00"))
}

// normalizeDate turns "2024:03:01 10:00:00" into "2024-03-01".
func normalizeDate(v string) string {
	if len(v) > 10 {
		v = v[:10]
	}
	return strings.ReplaceAll(v, ":", "-")
}

package imaging

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// CaptureInfo holds the EXIF fields the platform records per submission.
// Jurors use the capture timestamp to verify a photo was taken during the
// marathon window; GPS and camera fields are surfaced for context.
type CaptureInfo struct {
	CapturedAt  time.Time
	HasDate     bool
	Latitude    float64
	Longitude   float64
	HasGPS      bool
	CameraMake  string
	CameraModel string
}

// Camera returns "Make Model" for display, or "" when neither is present.
func (c CaptureInfo) Camera() string {
	s := strings.TrimSpace(c.CameraMake + " " + c.CameraModel)
	return s
}

// ExtractCaptureInfo reads EXIF metadata from a JPEG submission. The library
// reads only the metadata bytes, not the full image. A file without EXIF is
// not an error: the zero CaptureInfo is returned with the flags unset.
func ExtractCaptureInfo(data []byte) (CaptureInfo, error) {
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		return CaptureInfo{}, fmt.Errorf("decode EXIF metadata: %w", err)
	}

	var info CaptureInfo

	// Timestamp fallback chain: DateTimeOriginal > CreateDate > ModifyDate.
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		info.CapturedAt = exifData.DateTimeOriginal()
		info.HasDate = true
	case !exifData.CreateDate().IsZero():
		info.CapturedAt = exifData.CreateDate()
		info.HasDate = true
	case !exifData.ModifyDate().IsZero():
		info.CapturedAt = exifData.ModifyDate()
		info.HasDate = true
	}

	gps := exifData.GPS
	if gps.Latitude() != 0 || gps.Longitude() != 0 {
		info.Latitude = gps.Latitude()
		info.Longitude = gps.Longitude()
		info.HasGPS = true
	}

	info.CameraMake = strings.TrimSpace(exifData.Make)
	info.CameraModel = strings.TrimSpace(exifData.Model)

	log.Debug().
		Bool("has_date", info.HasDate).
		Bool("has_gps", info.HasGPS).
		Msg("EXIF capture info extracted")

	return info, nil
}

// Package imaging renders the derived variants of an uploaded submission:
// a WebP thumbnail for gallery grids and a mid-resolution JPEG preview for
// the lightbox view.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// Maximum dimension (width or height) per variant.
const (
	ThumbnailMaxDimension = 480
	PreviewMaxDimension   = 1600
)

const (
	thumbnailQuality = 80
	previewQuality   = 85
)

// RenderThumbnail decodes a JPEG submission and returns a WebP thumbnail.
func RenderThumbnail(original []byte) ([]byte, error) {
	img, err := decodeJPEG(original)
	if err != nil {
		return nil, err
	}

	resized := resize(img, ThumbnailMaxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail as WebP: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("WebP encoding produced empty thumbnail")
	}

	log.Debug().
		Int("input_size", len(original)).
		Int("output_size", buf.Len()).
		Msg("Thumbnail rendered")

	return buf.Bytes(), nil
}

// RenderPreview decodes a JPEG submission and returns a downscaled JPEG
// preview. Used as the display fallback when thumbnail generation failed.
func RenderPreview(original []byte) ([]byte, error) {
	img, err := decodeJPEG(original)
	if err != nil {
		return nil, err
	}

	resized := resize(img, PreviewMaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("encode preview as JPEG: %w", err)
	}

	log.Debug().
		Int("input_size", len(original)).
		Int("output_size", buf.Len()).
		Msg("Preview rendered")

	return buf.Bytes(), nil
}

func decodeJPEG(data []byte) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode JPEG: %w", err)
	}
	return img, nil
}

// resize downscales img so that neither dimension exceeds maxDimension,
// preserving aspect ratio. Images already within bounds are returned as-is.
func resize(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxDimension && height <= maxDimension {
		return img
	}

	newWidth, newHeight := fitDimensions(width, height, maxDimension)

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
	return resized
}

// fitDimensions scales (width, height) down so the larger side equals
// maxDimension, preserving aspect ratio.
func fitDimensions(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}

	if width > height {
		return maxDimension, int(float64(height) * float64(maxDimension) / float64(width))
	}
	return int(float64(width) * float64(maxDimension) / float64(height)), maxDimension
}

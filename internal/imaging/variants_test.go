package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// testJPEG encodes a solid-color image of the given size as JPEG bytes.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name      string
		w, h, max int
		wantW     int
		wantH     int
	}{
		{"landscape downscale", 4000, 3000, 480, 480, 360},
		{"portrait downscale", 3000, 4000, 480, 360, 480},
		{"already within bounds", 400, 300, 480, 400, 300},
		{"square at limit", 480, 480, 480, 480, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := fitDimensions(tt.w, tt.h, tt.max)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("fitDimensions(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderThumbnail(t *testing.T) {
	original := testJPEG(t, 1200, 900)

	thumb, err := RenderThumbnail(original)
	if err != nil {
		t.Fatalf("RenderThumbnail: %v", err)
	}
	if len(thumb) == 0 {
		t.Fatal("expected non-empty thumbnail")
	}

	// WebP files start with a RIFF header.
	if !bytes.HasPrefix(thumb, []byte("RIFF")) {
		t.Errorf("expected WebP output, got leading bytes %q", thumb[:4])
	}
}

func TestRenderThumbnailRejectsNonJPEG(t *testing.T) {
	if _, err := RenderThumbnail([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-JPEG input")
	}
}

func TestRenderPreview(t *testing.T) {
	original := testJPEG(t, 2400, 1600)

	preview, err := RenderPreview(original)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(preview))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > PreviewMaxDimension || bounds.Dy() > PreviewMaxDimension {
		t.Errorf("preview %dx%d exceeds max dimension %d", bounds.Dx(), bounds.Dy(), PreviewMaxDimension)
	}
}

func TestRenderPreviewKeepsSmallImages(t *testing.T) {
	original := testJPEG(t, 800, 600)

	preview, err := RenderPreview(original)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(preview))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 800 || bounds.Dy() != 600 {
		t.Errorf("expected 800x600 preview, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

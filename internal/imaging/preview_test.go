package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

func decodePreview(t *testing.T, res *PreviewResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	return img
}

func TestPreview(t *testing.T) {
	bin, _ := Binarize(newGray(40, 20, 30, 220))

	res, err := Preview(bin, 1)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if res.Width != 40 || res.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 40x20", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}

	img := decodePreview(t, res)
	if w, h := Dimensions(img); w != 40 || h != 20 {
		t.Errorf("decoded dimensions: got %dx%d", w, h)
	}
}

func TestPreview_Scale(t *testing.T) {
	bin, _ := Binarize(newGray(40, 20, 30, 220))

	tests := []struct {
		name          string
		scale         float64
		width, height int
	}{
		{"zero keeps size", 0, 40, 20},
		{"up", 2, 80, 40},
		{"down", 0.5, 20, 10},
		{"tiny never collapses", 0.001, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Preview(bin, tt.scale)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if res.Width != tt.width || res.Height != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", res.Width, res.Height, tt.width, tt.height)
			}
		})
	}
}

func TestPreview_ScaledStaysBinary(t *testing.T) {
	bin, _ := Binarize(newGray(40, 20, 30, 220))

	res, err := Preview(bin, 3)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	img := decodePreview(t, res)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if v := r >> 8; v != 0 && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, v)
			}
		}
	}
}

func TestPreview_InvalidScale(t *testing.T) {
	img := newGray(4, 4, 0, 255)
	for _, scale := range []float64{-1, MaxPreviewScale + 0.5} {
		if _, err := Preview(img, scale); err == nil {
			t.Errorf("scale %v: expected error", scale)
		}
	}
}

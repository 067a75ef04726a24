package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	dimaging "github.com/disintegration/imaging"
)

// MaxPreviewScale bounds the scale factor accepted by Preview.
const MaxPreviewScale = 4.0

// PreviewResult is a PNG rendition of an image, ready to embed in a JSON
// response.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes img as a base64 PNG, resized by scale.
//
// A scale of 0 or 1 keeps the original size. Binarized scans are resized
// with nearest-neighbour sampling so the result stays strictly black and
// white.
func Preview(img image.Image, scale float64) (*PreviewResult, error) {
	if scale < 0 || scale > MaxPreviewScale {
		return nil, fmt.Errorf("preview scale %.2f out of range (0, %.0f]", scale, MaxPreviewScale)
	}

	out := img
	if scale != 0 && scale != 1 {
		w, h := Dimensions(img)
		newWidth := max(1, int(float64(w)*scale))
		newHeight := max(1, int(float64(h)*scale))
		filter := dimaging.Lanczos
		if _, ok := img.(*image.Gray); ok {
			filter = dimaging.NearestNeighbor
		}
		out = dimaging.Resize(img, newWidth, newHeight, filter)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	w, h := Dimensions(out)
	return &PreviewResult{
		Width:       w,
		Height:      h,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/roster-attendance/internal/imaging"
)

// Extraction is the outcome of running an Extractor on one scan.
type Extraction struct {
	// Binary is the binarized image that was fed to the engine.
	Binary *image.Gray

	// Threshold is the Otsu threshold used to produce Binary.
	Threshold uint8

	// Text is the raw engine output.
	Text string
}

// Extractor loads a scan, binarizes it and runs an Engine over it.
type Extractor struct {
	engine Engine
}

// NewExtractor creates an Extractor that recognises text with engine.
func NewExtractor(engine Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Extract returns the binarized image and the raw text for the scan at path.
func (x *Extractor) Extract(ctx context.Context, path string) (*image.Gray, string, error) {
	res, err := x.ExtractDetailed(ctx, path)
	if err != nil {
		return nil, "", err
	}
	return res.Binary, res.Text, nil
}

// ExtractDetailed is Extract with the applied threshold included.
func (x *Extractor) ExtractDetailed(ctx context.Context, path string) (*Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}

	bin, threshold := imaging.Binarize(img)

	text, err := x.engine.Recognize(ctx, bin)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed for %s: %w", path, err)
	}

	return &Extraction{
		Binary:    bin,
		Threshold: threshold,
		Text:      text,
	}, nil
}

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Engine recognises text in an already pre-processed image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// TesseractEngine implements Engine with the gosseract client.
type TesseractEngine struct {
	// Language is a Tesseract language code, or several joined with "+"
	// (e.g. "fra+eng"). Empty means DefaultLanguage.
	Language string

	// PageSegMode is the Tesseract page segmentation mode (0-13).
	// Zero leaves the client default in place.
	PageSegMode int
}

// NewTesseractEngine creates a Tesseract-backed engine.
func NewTesseractEngine(language string, pageSegMode int) *TesseractEngine {
	return &TesseractEngine{
		Language:    language,
		PageSegMode: pageSegMode,
	}
}

// Recognize performs OCR on img and returns the recognised text verbatim.
//
// The image is encoded to PNG in memory and handed to a fresh gosseract
// client, so concurrent calls never share Tesseract state.
//
// Parameters:
//   - ctx: Checked before OCR starts. Tesseract itself cannot be interrupted
//     once running.
//   - img: The image to recognise, normally the output of imaging.Binarize.
//
// Returns:
//   - string: Raw text exactly as Tesseract produced it.
//   - error: Non-nil if encoding, client setup, or recognition fails.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	language := e.Language
	if language == "" {
		language = DefaultLanguage
	}
	if err := client.SetLanguage(language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if e.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(e.PageSegMode)); err != nil {
			return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

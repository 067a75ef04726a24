// Package ocr turns a roster scan into raw text using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). It is the
// "text extractor" boundary of the attendance pipeline: given a binarized
// image it returns whatever text Tesseract recognised, verbatim. No cleanup
// is applied here; the roster parser owns every assumption about layout.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - "eng" ships with most installs
//   - "fra" is recommended for French roster headers: apt-get install tesseract-ocr-fra
//
// # Types
//
//   - Engine: anything that recognises text in an image.
//   - TesseractEngine: the gosseract-backed Engine.
//   - Extractor: load a scan, binarize it, run an Engine on it.
//
// # Concurrency
//
// A gosseract client is not safe for concurrent use, so TesseractEngine
// creates a fresh client for every Recognize call. Any number of batch
// workers can share one TesseractEngine.
//
// # Error Handling
//
// Functions return errors for:
//   - Missing or undecodable image files
//   - Unsupported language codes
//   - Tesseract initialization or recognition failures
//
// Errors are never swallowed: a failed extraction is reported to the caller,
// which decides whether to skip the image.
package ocr

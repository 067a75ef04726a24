// Package imaging loads roster scans and prepares them for text extraction.
//
// Every scan goes through the same two steps before it reaches the OCR
// engine:
//
//  1. Grayscale conversion: the decoded image is reduced to a single
//     luminance channel.
//  2. Binarization: an automatic global threshold is computed with Otsu's
//     method and every pixel becomes either black (0) or white (255).
//
// Otsu's method picks the threshold that maximises the between-class
// variance of the intensity histogram, which is the same as minimising the
// intra-class variance. No manual tuning is needed per scan, so sheets shot
// under different lighting end up with comparable contrast.
//
// # Threshold Semantics
//
// The threshold t returned by OtsuThreshold is the last intensity of the
// dark class. Binarize maps pixels with intensity > t to white and all other
// pixels to black. A uniform image yields t = 0, so a blank white page stays
// white and a blank black page stays black.
//
// # Supported Formats
//
// Load decodes PNG, JPEG, GIF, BMP and TIFF files. JPEG EXIF orientation is
// applied so phone photos of a sheet come out upright.
//
// # Previews
//
// Preview encodes any image, typically the binarized scan, as a base64 PNG
// so an MCP client can see exactly what the OCR engine was given.
//
// # Thread Safety
//
// All functions are stateless and safe to call concurrently on different
// images. Nothing is cached: each Load reads the file from disk.
package imaging

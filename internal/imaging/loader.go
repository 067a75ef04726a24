package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	dimaging "github.com/disintegration/imaging"
)

// supportedExtensions lists the file extensions Load knows how to decode.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsSupported reports whether path has an image extension Load can decode.
// The check is case-insensitive and based on the extension only.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads and decodes the image at path.
//
// Parameters:
//   - path: Absolute or relative file path to the image.
//
// Returns:
//   - image.Image: The decoded image, with JPEG EXIF orientation applied.
//   - error: Non-nil if the file cannot be opened or decoded. The error
//     always names the offending path.
//
// Load never caches. Every call reads the file from disk, which keeps
// memory bounded when a batch holds hundreds of scans.
func Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open image %s: is a directory", path)
	}

	img, err := dimaging.Open(path, dimaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Dimensions returns the width and height of img in pixels.
func Dimensions(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

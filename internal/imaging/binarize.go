package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Grayscale converts img to a single-channel luminance image.
//
// If img is already an *image.Gray it is returned unchanged. Otherwise the
// conversion uses bild's luminance weights. The result always has its
// bounds rebased to (0,0).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	return channel.Extract(effect.Grayscale(img), channel.Red)
}

// Histogram counts how many pixels of gray have each intensity.
func Histogram(gray *image.Gray) [256]int {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[(y-b.Min.Y)*gray.Stride : (y-b.Min.Y)*gray.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold computes the global threshold of gray using Otsu's method.
//
// The returned value t splits the histogram into a dark class [0, t] and a
// light class [t+1, 255] such that the between-class variance
//
//	wB * wF * (meanB - meanF)²
//
// is maximal. Ties keep the lowest t. Empty and uniform images return 0.
func OtsuThreshold(gray *image.Gray) uint8 {
	hist := Histogram(gray)

	total := 0
	var sum float64
	for i, n := range hist {
		total += n
		sum += float64(i) * float64(n)
	}
	if total == 0 {
		return 0
	}

	var (
		sumB      float64
		weightB   int
		best      float64
		threshold int
	)
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}

		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)

		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			threshold = t
		}
	}
	return uint8(threshold)
}

// Binarize converts img to a black and white image using an automatic
// Otsu threshold.
//
// Returns:
//   - *image.Gray: Pixels brighter than the threshold are 255, all others 0.
//   - uint8: The threshold that was applied.
func Binarize(img image.Image) (*image.Gray, uint8) {
	gray := Grayscale(img)
	// OtsuThreshold never returns 255: the light class is never empty.
	t := OtsuThreshold(gray)
	// segment.Threshold keeps pixels >= level, so shift by one to keep only > t.
	return segment.Threshold(gray, t+1), t
}

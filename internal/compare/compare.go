// Package compare implements the visual regression comparison engine: it
// decides whether two screenshots represent the same UI state within a
// configurable tolerance, and does so with a strategy chosen from image size
// and estimated memory so the answer stays fast for interactive test suites.
package compare

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/xerrors"
)

// Comparator is a single comparison strategy. All strategies are pure: for a
// given (baseline, actual, config) input they produce identical Stats no
// matter how the work was partitioned.
type Comparator interface {
	Compare(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error)
}

// DecodeRGBA decodes PNG or JPEG bytes and normalizes the result to an
// *image.RGBA buffer. Decoding raw file bytes is the boundary's concern; the
// comparators themselves only ever see RGBA8 buffers.
func DecodeRGBA(data []byte) (*image.RGBA, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, xerrors.Errorf("failed to decode image: %s: %w", err, ErrDecode)
	}
	return NormalizeRGBA(decoded), nil
}

// NormalizeRGBA converts any decoded image to *image.RGBA for consistent
// byte-level access.
func NormalizeRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

func checkDimensions(baseline *image.RGBA, actual *image.RGBA) (int, int, error) {
	width := baseline.Bounds().Dx()
	height := baseline.Bounds().Dy()
	if actual.Bounds().Dx() != width || actual.Bounds().Dy() != height {
		return 0, 0, xerrors.Errorf("baseline is %dx%d but actual is %dx%d: %w",
			width, height, actual.Bounds().Dx(), actual.Bounds().Dy(), ErrDimensionMismatch)
	}
	return width, height, nil
}

// pixelDiffers is the one per-pixel predicate shared by every strategy.
// Without anti-aliasing tolerance an exact 4-channel match is required. With
// it, R/G/B may each differ by up to antiAliasingSlack and alpha is equal when
// both channels match exactly or both are nearly opaque.
func pixelDiffers(br, bg, bb, ba, ar, ag, ab, aa uint8, antiAliasing bool) bool {
	if !antiAliasing {
		return br != ar || bg != ag || bb != ab || ba != aa
	}

	if channelDelta(br, ar) > antiAliasingSlack ||
		channelDelta(bg, ag) > antiAliasingSlack ||
		channelDelta(bb, ab) > antiAliasingSlack {
		return true
	}

	if ba == aa {
		return false
	}
	return ba < nearlyOpaqueAlpha || aa < nearlyOpaqueAlpha
}

func channelDelta(a uint8, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}

// scanRows compares rows [startY, endY) of two equally-sized RGBA images
// against the shared ignore mask. Rows are indexed in image-local space
// starting at 0 regardless of the images' bounds, which lets SubImage crops
// reuse the same loop. Access is row-major over contiguous Pix slices.
func scanRows(baseline *image.RGBA, actual *image.RGBA, mask []bool, width int, startY int, endY int, antiAliasing bool) (int64, int64) {
	var different int64
	var counted int64

	baselineBounds := baseline.Bounds()
	actualBounds := actual.Bounds()

	for y := startY; y < endY; y++ {
		baselineRowStart := baseline.PixOffset(baselineBounds.Min.X, baselineBounds.Min.Y+y)
		actualRowStart := actual.PixOffset(actualBounds.Min.X, actualBounds.Min.Y+y)
		maskRowStart := y * width

		for x := 0; x < width; x++ {
			if mask[maskRowStart+x] {
				continue
			}
			counted++

			baselineOffset := baselineRowStart + x*4
			actualOffset := actualRowStart + x*4

			if pixelDiffers(
				baseline.Pix[baselineOffset],
				baseline.Pix[baselineOffset+1],
				baseline.Pix[baselineOffset+2],
				baseline.Pix[baselineOffset+3],
				actual.Pix[actualOffset],
				actual.Pix[actualOffset+1],
				actual.Pix[actualOffset+2],
				actual.Pix[actualOffset+3],
				antiAliasing,
			) {
				different++
			}
		}
	}

	return different, counted
}

func statsFromCounts(different int64, counted int64) Stats {
	mismatch := 0.0
	if counted > 0 {
		mismatch = float64(different) / float64(counted)
	}
	return Stats{
		MismatchPercentage:  mismatch,
		DifferentPixelCount: different,
		CountedPixelCount:   counted,
	}
}

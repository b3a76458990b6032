// Package render produces the diff artifact for a failed comparison: a copy
// of the frame with changed pixels painted by direction of brightness change
// and ignored areas dimmed, suitable for embedding in an HTML or CI report.
package render

import (
	"image"

	"visual-comparator/internal/compare"
)

// Brightness delta (normalized to [-1, 1]) below which a changed pixel is
// painted as-is instead of highlighted.
const highlightThreshold = 0.1

// Diff renders the comparison of two equally-sized RGBA images under the
// given config. Pixels the comparison would count as different are painted
// red when the actual frame is brighter and blue when darker; ignored pixels
// are dimmed toward gray so the reader can see what was excluded.
func Diff(baseline *image.RGBA, actual *image.RGBA, config compare.Config) *image.RGBA {
	width := baseline.Bounds().Dx()
	height := baseline.Bounds().Dy()

	mask := compare.BuildIgnoreMask(width, height, config.IgnoreRegions, config.IncludeROI)

	out := image.NewRGBA(image.Rect(0, 0, width, height))

	baselineBounds := baseline.Bounds()
	actualBounds := actual.Bounds()

	for y := 0; y < height; y++ {
		baselineRowStart := baseline.PixOffset(baselineBounds.Min.X, baselineBounds.Min.Y+y)
		actualRowStart := actual.PixOffset(actualBounds.Min.X, actualBounds.Min.Y+y)
		outRowStart := out.PixOffset(0, y)
		maskRowStart := y * width

		for x := 0; x < width; x++ {
			baselineOffset := baselineRowStart + x*4
			actualOffset := actualRowStart + x*4
			outOffset := outRowStart + x*4

			br := baseline.Pix[baselineOffset]
			bg := baseline.Pix[baselineOffset+1]
			bb := baseline.Pix[baselineOffset+2]
			ba := baseline.Pix[baselineOffset+3]

			if mask[maskRowStart+x] {
				out.Pix[outOffset] = dim(br)
				out.Pix[outOffset+1] = dim(bg)
				out.Pix[outOffset+2] = dim(bb)
				out.Pix[outOffset+3] = ba
				continue
			}

			ar := actual.Pix[actualOffset]
			ag := actual.Pix[actualOffset+1]
			ab := actual.Pix[actualOffset+2]
			aa := actual.Pix[actualOffset+3]

			if br == ar && bg == ag && bb == ab && ba == aa {
				out.Pix[outOffset] = br
				out.Pix[outOffset+1] = bg
				out.Pix[outOffset+2] = bb
				out.Pix[outOffset+3] = ba
				continue
			}

			dr, dg, db, da := diffColor(br, bg, bb, ba, ar, ag, ab)
			out.Pix[outOffset] = dr
			out.Pix[outOffset+1] = dg
			out.Pix[outOffset+2] = db
			out.Pix[outOffset+3] = da
		}
	}

	return out
}

// diffColor paints by brightness direction: red when the actual frame got
// brighter, blue when it got darker, the original pixel when the change is
// below the highlight threshold.
func diffColor(br, bg, bb, ba, ar, ag, ab uint8) (uint8, uint8, uint8, uint8) {
	baselineBrightness := int(br) + int(bg) + int(bb)
	actualBrightness := int(ar) + int(ag) + int(ab)
	normalizedDiff := float64(actualBrightness-baselineBrightness) / (255.0 * 3.0)

	if normalizedDiff > highlightThreshold {
		return 255, 0, 0, 255
	} else if normalizedDiff < -highlightThreshold {
		return 0, 0, 255, 255
	}
	return br, bg, bb, ba
}

func dim(c uint8) uint8 {
	return uint8((int(c) + 128) / 2)
}

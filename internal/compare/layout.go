package compare

import (
	"image"

	"github.com/corona10/goimagehash"
)

// compareLayoutAware tolerates small positional drift: a baseline pixel
// matches when any actual pixel within the configured Chebyshev radius
// matches it. A zero tolerance degenerates to the plain pixel scan.
func compareLayoutAware(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error) {
	width, height, err := checkDimensions(baseline, actual)
	if err != nil {
		return Stats{}, err
	}

	tolerance := config.LayoutShiftTolerance
	if tolerance <= 0 {
		return NewPixelComparator().Compare(baseline, actual, config)
	}

	mask := BuildIgnoreMask(width, height, config.IgnoreRegions, config.IncludeROI)

	baselineBounds := baseline.Bounds()
	actualBounds := actual.Bounds()

	var different int64
	var counted int64

	for y := 0; y < height; y++ {
		baselineRowStart := baseline.PixOffset(baselineBounds.Min.X, baselineBounds.Min.Y+y)
		maskRowStart := y * width

		for x := 0; x < width; x++ {
			if mask[maskRowStart+x] {
				continue
			}
			counted++

			baselineOffset := baselineRowStart + x*4
			br := baseline.Pix[baselineOffset]
			bg := baseline.Pix[baselineOffset+1]
			bb := baseline.Pix[baselineOffset+2]
			ba := baseline.Pix[baselineOffset+3]

			matched := false
			for dy := -tolerance; dy <= tolerance && !matched; dy++ {
				ny := y + dy
				if ny < 0 || ny >= height {
					continue
				}
				actualRowStart := actual.PixOffset(actualBounds.Min.X, actualBounds.Min.Y+ny)
				for dx := -tolerance; dx <= tolerance; dx++ {
					nx := x + dx
					if nx < 0 || nx >= width {
						continue
					}
					actualOffset := actualRowStart + nx*4
					if !pixelDiffers(br, bg, bb, ba,
						actual.Pix[actualOffset],
						actual.Pix[actualOffset+1],
						actual.Pix[actualOffset+2],
						actual.Pix[actualOffset+3],
						config.AntiAliasingTolerance,
					) {
						matched = true
						break
					}
				}
			}

			if !matched {
				different++
			}
		}
	}

	return statsFromCounts(different, counted), nil
}

// compareHybrid blends the byte-level mismatch with a perceptual-hash
// distance, so a cosmetic re-render that moves many pixels but preserves
// structure scores lower than a genuine content change of the same pixel
// count. The hash term sees the full frame; ignore regions affect only the
// pixel term.
func compareHybrid(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error) {
	pixelStats, err := NewPixelComparator().Compare(baseline, actual, config)
	if err != nil {
		return Stats{}, err
	}

	baselineHash, err := goimagehash.PerceptionHash(baseline)
	if err != nil {
		return Stats{}, err
	}
	actualHash, err := goimagehash.PerceptionHash(actual)
	if err != nil {
		return Stats{}, err
	}
	distance, err := baselineHash.Distance(actualHash)
	if err != nil {
		return Stats{}, err
	}

	structuralMismatch := float64(distance) / 64.0
	mismatch := (pixelStats.MismatchPercentage + structuralMismatch) / 2.0

	different := int64(mismatch*float64(pixelStats.CountedPixelCount) + 0.5)
	return Stats{
		MismatchPercentage:  mismatch,
		DifferentPixelCount: different,
		CountedPixelCount:   pixelStats.CountedPixelCount,
	}, nil
}

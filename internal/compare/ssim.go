package compare

import "image"

// Structural similarity over 8x8 luminance windows, honoring the ignore mask.
// Windows with fewer than two usable pixels carry no signal and are skipped.
const (
	ssimWindowSize = 8
	// Stabilizing constants for 8-bit dynamic range: (0.01*255)^2, (0.03*255)^2.
	ssimC1 = 6.5025
	ssimC2 = 58.5225
)

func compareSSIM(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error) {
	width, height, err := checkDimensions(baseline, actual)
	if err != nil {
		return Stats{}, err
	}

	mask := BuildIgnoreMask(width, height, config.IgnoreRegions, config.IncludeROI)

	baselineLuma := luminance(baseline, width, height)
	actualLuma := luminance(actual, width, height)

	var counted int64
	for _, ignored := range mask {
		if !ignored {
			counted++
		}
	}
	if counted == 0 {
		return Stats{}, nil
	}

	var weightedSSIM float64
	var weight float64

	for wy := 0; wy < height; wy += ssimWindowSize {
		for wx := 0; wx < width; wx += ssimWindowSize {
			endY := wy + ssimWindowSize
			if endY > height {
				endY = height
			}
			endX := wx + ssimWindowSize
			if endX > width {
				endX = width
			}

			var n float64
			var sumB, sumA float64
			for y := wy; y < endY; y++ {
				rowStart := y * width
				for x := wx; x < endX; x++ {
					if mask[rowStart+x] {
						continue
					}
					sumB += baselineLuma[rowStart+x]
					sumA += actualLuma[rowStart+x]
					n++
				}
			}
			if n < 2 {
				continue
			}

			meanB := sumB / n
			meanA := sumA / n

			var varB, varA, covar float64
			for y := wy; y < endY; y++ {
				rowStart := y * width
				for x := wx; x < endX; x++ {
					if mask[rowStart+x] {
						continue
					}
					db := baselineLuma[rowStart+x] - meanB
					da := actualLuma[rowStart+x] - meanA
					varB += db * db
					varA += da * da
					covar += db * da
				}
			}
			varB /= n - 1
			varA /= n - 1
			covar /= n - 1

			ssim := ((2*meanB*meanA + ssimC1) * (2*covar + ssimC2)) /
				((meanB*meanB + meanA*meanA + ssimC1) * (varB + varA + ssimC2))

			weightedSSIM += ssim * n
			weight += n
		}
	}

	meanSSIM := 1.0
	if weight > 0 {
		meanSSIM = weightedSSIM / weight
	}

	mismatch := 1.0 - meanSSIM
	if mismatch < 0 {
		mismatch = 0
	}
	if mismatch > 1 {
		mismatch = 1
	}

	different := int64(mismatch*float64(counted) + 0.5)
	return Stats{
		MismatchPercentage:  mismatch,
		DifferentPixelCount: different,
		CountedPixelCount:   counted,
	}, nil
}

// luminance converts an RGBA buffer to BT.601 luma, indexed in image-local
// row-major order.
func luminance(img *image.RGBA, width int, height int) []float64 {
	luma := make([]float64, width*height)
	bounds := img.Bounds()
	for y := 0; y < height; y++ {
		rowStart := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		lumaRowStart := y * width
		for x := 0; x < width; x++ {
			offset := rowStart + x*4
			luma[lumaRowStart+x] = 0.299*float64(img.Pix[offset]) +
				0.587*float64(img.Pix[offset+1]) +
				0.114*float64(img.Pix[offset+2])
		}
	}
	return luma
}

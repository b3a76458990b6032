package compare

import (
	"image"

	"golang.org/x/xerrors"
)

// DefaultMemoryBudgetBytes bounds the peak memory one comparison may use
// before the engine switches to strip-wise processing.
const DefaultMemoryBudgetBytes = 100 * 1024 * 1024

// EstimateMemoryUsage returns the estimated peak memory in bytes for
// comparing two width x height images: both RGBA buffers, the ignore mask, a
// potential diff buffer, plus 10% overhead. It is exposed standalone so batch
// runners can pre-flight feasibility before loading any image.
func EstimateMemoryUsage(width int, height int) uint64 {
	pixels := uint64(width) * uint64(height)
	base := 2*pixels*4 + pixels + pixels*4
	return base + base/10
}

// StripComparator bounds peak memory by comparing horizontal strips
// sequentially instead of walking both full images at once. Strips are a
// memory optimization, not an approximation: the aggregated counts equal the
// full-image computation exactly.
type StripComparator struct {
	budgetBytes uint64
	sequential  *PixelComparator
}

func NewStripComparator(budgetBytes uint64) *StripComparator {
	if budgetBytes == 0 {
		budgetBytes = DefaultMemoryBudgetBytes
	}
	return &StripComparator{
		budgetBytes: budgetBytes,
		sequential:  NewPixelComparator(),
	}
}

func (s *StripComparator) Compare(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error) {
	width, height, err := checkDimensions(baseline, actual)
	if err != nil {
		return Stats{}, err
	}

	// Only the two cropped images are held at a time; the mask and diff
	// buffers are per-strip.
	bytesPerRow := uint64(width) * 4 * 2
	if bytesPerRow > s.budgetBytes {
		return Stats{}, xerrors.Errorf("single row of %d pixels needs %d bytes, budget is %d: %w",
			width, bytesPerRow, s.budgetBytes, ErrResourceExhausted)
	}
	stripHeight := int(s.budgetBytes / bytesPerRow)
	if stripHeight < 1 {
		stripHeight = 1
	}

	roi := config.IncludeROI
	if roi != nil && !roi.FitsWithin(width, height) {
		roi = nil
	}

	var different int64
	var counted int64

	for y := 0; y < height; y += stripHeight {
		endY := y + stripHeight
		if endY > height {
			endY = height
		}

		stripConfig := Config{
			Threshold:             config.Threshold,
			Method:                config.Method,
			AntiAliasingTolerance: config.AntiAliasingTolerance,
			LayoutShiftTolerance:  config.LayoutShiftTolerance,
		}

		// Cropping implements the ROI restriction, so the strip config
		// carries only the ROI's intersection with this strip. A strip
		// entirely outside the ROI contributes nothing.
		if roi != nil {
			clipped, overlaps := ClipRegionToStrip(*roi, y, endY)
			if !overlaps {
				continue
			}
			stripConfig.IncludeROI = &clipped
		}

		for _, region := range config.IgnoreRegions {
			if !region.FitsWithin(width, height) {
				continue
			}
			if clipped, overlaps := ClipRegionToStrip(region, y, endY); overlaps {
				stripConfig.IgnoreRegions = append(stripConfig.IgnoreRegions, clipped)
			}
		}

		baselineStrip := cropRows(baseline, y, endY)
		actualStrip := cropRows(actual, y, endY)

		stats, err := s.sequential.Compare(baselineStrip, actualStrip, stripConfig)
		if err != nil {
			return Stats{}, err
		}

		different += stats.DifferentPixelCount
		counted += stats.CountedPixelCount
	}

	return statsFromCounts(different, counted), nil
}

func cropRows(img *image.RGBA, startY int, endY int) *image.RGBA {
	bounds := img.Bounds()
	rect := image.Rect(bounds.Min.X, bounds.Min.Y+startY, bounds.Max.X, bounds.Min.Y+endY)
	return img.SubImage(rect).(*image.RGBA)
}

package compare

import "image"

// PixelComparator is the plain sequential strategy: a row-major full scan of
// two equally-sized RGBA buffers against the ignore mask.
type PixelComparator struct{}

func NewPixelComparator() *PixelComparator {
	return &PixelComparator{}
}

func (p *PixelComparator) Compare(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error) {
	width, height, err := checkDimensions(baseline, actual)
	if err != nil {
		return Stats{}, err
	}

	mask := BuildIgnoreMask(width, height, config.IgnoreRegions, config.IncludeROI)
	different, counted := scanRows(baseline, actual, mask, width, 0, height, config.AntiAliasingTolerance)

	return statsFromCounts(different, counted), nil
}

package compare

import (
	"image"
	"sync"
	"sync/atomic"
)

const (
	// Below this pixel count the chunking overhead outweighs the benefit
	// and the sequential scan wins.
	ParallelThresholdPixels = 500_000
	// Number of horizontal bands large images are split into.
	parallelBandCount = 4
)

// ParallelComparator splits large images into horizontal bands and compares
// them concurrently. Band partitioning is purely a performance optimization:
// the aggregated counts are bit-for-bit identical to the sequential scan,
// since each band sums independent pixels and integer addition commutes.
type ParallelComparator struct {
	sequential *PixelComparator
}

func NewParallelComparator() *ParallelComparator {
	return &ParallelComparator{
		sequential: NewPixelComparator(),
	}
}

func (p *ParallelComparator) Compare(baseline *image.RGBA, actual *image.RGBA, config Config) (Stats, error) {
	width, height, err := checkDimensions(baseline, actual)
	if err != nil {
		return Stats{}, err
	}

	if width*height < ParallelThresholdPixels {
		return p.sequential.Compare(baseline, actual, config)
	}

	mask := BuildIgnoreMask(width, height, config.IgnoreRegions, config.IncludeROI)

	var different int64
	var counted int64

	rowsPerBand := height / parallelBandCount

	var wg sync.WaitGroup
	wg.Add(parallelBandCount)

	for i := 0; i < parallelBandCount; i++ {
		startY := i * rowsPerBand
		endY := startY + rowsPerBand
		if i == parallelBandCount-1 {
			endY = height
		}

		go func(startY int, endY int) {
			defer wg.Done()
			localDifferent, localCounted := scanRows(baseline, actual, mask, width, startY, endY, config.AntiAliasingTolerance)
			atomic.AddInt64(&different, localDifferent)
			atomic.AddInt64(&counted, localCounted)
		}(startY, endY)
	}

	wg.Wait()

	return statsFromCounts(different, counted), nil
}

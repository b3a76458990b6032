package compare

import (
	"image"
	"time"

	"visual-comparator/internal/monitor"
)

// Strategy tags the execution plan the engine picked for a pixel-match
// comparison. Strategy is purely a performance concern; every tag produces
// identical Stats for the same input.
type Strategy string

const (
	StrategyPixel    Strategy = "pixel"
	StrategyParallel Strategy = "parallel"
	StrategyStrip    Strategy = "strip"
)

// SelectStrategy is the ordered decision table behind dispatch: the memory
// budget wins over everything, then the parallel size threshold, then the
// plain scan. It is a pure function so the table is testable without running
// a comparison.
func SelectStrategy(width int, height int, memoryBudgetBytes uint64) Strategy {
	if memoryBudgetBytes == 0 {
		memoryBudgetBytes = DefaultMemoryBudgetBytes
	}
	if EstimateMemoryUsage(width, height) > memoryBudgetBytes {
		return StrategyStrip
	}
	if width*height >= ParallelThresholdPixels {
		return StrategyParallel
	}
	return StrategyPixel
}

// The boundary between minor layout drift and a substantive content change.
// Existing baselines depend on this value; do not change it.
const layoutShiftCutoff = 0.1

// Classify derives the match verdict and difference type from a mismatch
// percentage and the configured threshold.
func Classify(mismatchPercentage float64, threshold float64) (bool, DifferenceType) {
	if mismatchPercentage <= threshold {
		return true, DifferenceNone
	}
	if mismatchPercentage < layoutShiftCutoff {
		return false, DifferenceLayoutShift
	}
	return false, DifferenceContentChange
}

// Engine is the single entry point for comparisons. It validates the request,
// picks a strategy, times the chosen comparator, classifies the outcome, and
// reports the observation to the monitor when one was injected.
type Engine struct {
	memoryBudgetBytes uint64
	monitor           *monitor.PerformanceMonitor

	pixel    *PixelComparator
	parallel *ParallelComparator
	strip    *StripComparator
}

// NewEngine creates an engine with the default 100MB memory budget. The
// monitor is optional; pass nil when aggregate statistics are not wanted.
func NewEngine(m *monitor.PerformanceMonitor) *Engine {
	return NewEngineWithBudget(m, DefaultMemoryBudgetBytes)
}

func NewEngineWithBudget(m *monitor.PerformanceMonitor, memoryBudgetBytes uint64) *Engine {
	if memoryBudgetBytes == 0 {
		memoryBudgetBytes = DefaultMemoryBudgetBytes
	}
	return &Engine{
		memoryBudgetBytes: memoryBudgetBytes,
		monitor:           m,
		pixel:             NewPixelComparator(),
		parallel:          NewParallelComparator(),
		strip:             NewStripComparator(memoryBudgetBytes),
	}
}

// Compare runs one synchronous, single-shot comparison. It surfaces errors to
// the caller and never retries: the operation is deterministic, so an
// identical input would fail identically.
func (e *Engine) Compare(baseline *image.RGBA, actual *image.RGBA, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	width, height, err := checkDimensions(baseline, actual)
	if err != nil {
		return nil, err
	}

	estimatedBytes := EstimateMemoryUsage(width, height)

	start := time.Now()
	var stats Stats
	switch config.Method {
	case MethodSSIM:
		stats, err = compareSSIM(baseline, actual, config)
	case MethodLayoutAware:
		stats, err = compareLayoutAware(baseline, actual, config)
	case MethodHybrid:
		stats, err = compareHybrid(baseline, actual, config)
	default:
		switch SelectStrategy(width, height, e.memoryBudgetBytes) {
		case StrategyStrip:
			stats, err = e.strip.Compare(baseline, actual, config)
		case StrategyParallel:
			stats, err = e.parallel.Compare(baseline, actual, config)
		default:
			stats, err = e.pixel.Compare(baseline, actual, config)
		}
	}
	if err != nil {
		return nil, err
	}
	comparisonTimeMS := uint32(time.Since(start).Milliseconds())

	memoryUsageMB := uint32(estimatedBytes / (1024 * 1024))

	isMatch, differenceType := Classify(stats.MismatchPercentage, config.Threshold)

	if e.monitor != nil {
		e.monitor.RecordComparison(comparisonTimeMS, memoryUsageMB)
	}

	return &Result{
		IsMatch:             isMatch,
		MismatchPercentage:  stats.MismatchPercentage,
		DifferentPixelCount: stats.DifferentPixelCount,
		CountedPixelCount:   stats.CountedPixelCount,
		DifferenceType:      differenceType,
		Metrics: Metrics{
			ComparisonTimeMS: comparisonTimeMS,
			MemoryUsageMB:    memoryUsageMB,
			ImageWidth:       width,
			ImageHeight:      height,
		},
	}, nil
}

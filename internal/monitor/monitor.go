// Package monitor aggregates comparison performance across a test run and
// raises threshold-based alerts. One monitor is created per run, observes
// every dispatch, and is discarded between independent runs.
package monitor

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// AlertLevel classifies a single observation against the configured
// thresholds.
type AlertLevel string

const (
	AlertNormal   AlertLevel = "normal"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Thresholds are construction-time parameters, not per-call overrides.
type Thresholds struct {
	MaxComparisonTimeMS uint32
	MaxMemoryMB         uint32
	WarningThreshold    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxComparisonTimeMS: 200,
		MaxMemoryMB:         512,
		WarningThreshold:    0.8,
	}
}

// The time allowance scales with image size relative to an HD frame, so a 4K
// comparison gets four times the budget of a 1920x1080 one.
const hdPixelCount = 1920 * 1080

// PerformanceMonitor keeps running statistics over concurrent comparisons.
// Each field is independently and atomically updated; no invariant depends on
// their joint consistency at read time.
type PerformanceMonitor struct {
	thresholds Thresholds

	comparisonCount  atomic.Int64
	cumulativeTimeMS atomic.Int64
	peakMemoryMB     atomic.Int64

	comparisonsTotal   prometheus.Counter
	comparisonDuration prometheus.Histogram
	peakMemoryGauge    prometheus.Gauge
}

func NewPerformanceMonitor(thresholds Thresholds) *PerformanceMonitor {
	if thresholds.MaxComparisonTimeMS == 0 {
		thresholds.MaxComparisonTimeMS = DefaultThresholds().MaxComparisonTimeMS
	}
	if thresholds.MaxMemoryMB == 0 {
		thresholds.MaxMemoryMB = DefaultThresholds().MaxMemoryMB
	}
	if thresholds.WarningThreshold == 0 {
		thresholds.WarningThreshold = DefaultThresholds().WarningThreshold
	}
	return &PerformanceMonitor{
		thresholds: thresholds,
	}
}

// MustRegisterMetrics attaches Prometheus instruments to the monitor and
// registers them with the given registerer. Callers that only want the
// in-process aggregates skip this.
func (p *PerformanceMonitor) MustRegisterMetrics(registerer prometheus.Registerer) {
	p.comparisonsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comparisons_total",
		Help: "Number of image comparisons performed.",
	})
	p.comparisonDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "comparison_duration_milliseconds",
		Help:    "Wall time of the comparison stage.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600},
	})
	p.peakMemoryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "comparison_peak_memory_megabytes",
		Help: "Largest estimated memory use observed for a single comparison.",
	})
	registerer.MustRegister(p.comparisonsTotal, p.comparisonDuration, p.peakMemoryGauge)
}

// RecordComparison folds one observation into the running aggregates.
// Concurrent calls must not lose updates; the peak is maintained with a
// compare-and-swap max rather than an overwrite.
func (p *PerformanceMonitor) RecordComparison(timeMS uint32, memoryMB uint32) {
	p.comparisonCount.Add(1)
	p.cumulativeTimeMS.Add(int64(timeMS))

	for {
		peak := p.peakMemoryMB.Load()
		if int64(memoryMB) <= peak {
			break
		}
		if p.peakMemoryMB.CompareAndSwap(peak, int64(memoryMB)) {
			break
		}
	}

	if p.comparisonsTotal != nil {
		p.comparisonsTotal.Inc()
		p.comparisonDuration.Observe(float64(timeMS))
		p.peakMemoryGauge.Set(float64(p.peakMemoryMB.Load()))
	}
}

// CheckAlert evaluates a single observation against the thresholds. It is
// stateless with respect to history: the running average plays no part.
func (p *PerformanceMonitor) CheckAlert(timeMS uint32, memoryMB uint32, imagePixelCount int) AlertLevel {
	scale := float64(imagePixelCount) / float64(hdPixelCount)
	if scale < 1.0 {
		scale = 1.0
	}

	timeRatio := float64(timeMS) / (float64(p.thresholds.MaxComparisonTimeMS) * scale)
	memoryRatio := float64(memoryMB) / float64(p.thresholds.MaxMemoryMB)

	ratio := timeRatio
	if memoryRatio > ratio {
		ratio = memoryRatio
	}

	switch {
	case ratio >= 1.0:
		return AlertCritical
	case ratio >= p.thresholds.WarningThreshold:
		return AlertWarning
	default:
		return AlertNormal
	}
}

// ComparisonCount returns the number of comparisons recorded so far.
func (p *PerformanceMonitor) ComparisonCount() int64 {
	return p.comparisonCount.Load()
}

// AverageTimeMS is cumulative time over count, 0.0 before any recording.
func (p *PerformanceMonitor) AverageTimeMS() float64 {
	count := p.comparisonCount.Load()
	if count == 0 {
		return 0.0
	}
	return float64(p.cumulativeTimeMS.Load()) / float64(count)
}

// PeakMemoryMB is the largest per-comparison memory estimate observed.
func (p *PerformanceMonitor) PeakMemoryMB() uint32 {
	return uint32(p.peakMemoryMB.Load())
}

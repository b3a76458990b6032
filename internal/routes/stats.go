package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"visual-comparator/internal/monitor"
)

type StatsResponse struct {
	Comparisons   int64   `json:"comparisons"`
	AverageTimeMS float64 `json:"averageTimeMs"`
	PeakMemoryMB  uint32  `json:"peakMemoryMb"`
}

// Stats handles GET /stats: the run-wide aggregates the monitor accumulated.
func Stats(performanceMonitor *monitor.PerformanceMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := StatsResponse{
			Comparisons:   performanceMonitor.ComparisonCount(),
			AverageTimeMS: performanceMonitor.AverageTimeMS(),
			PeakMemoryMB:  performanceMonitor.PeakMemoryMB(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

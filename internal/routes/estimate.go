package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"visual-comparator/internal/compare"
)

type EstimateResponse struct {
	EstimatedBytes uint64           `json:"estimatedBytes"`
	EstimatedMB    uint64           `json:"estimatedMb"`
	Strategy       compare.Strategy `json:"strategy"`
}

// Estimate handles GET /estimate: a pre-flight memory check so batch runners
// can decide whether a comparison is feasible before loading any image.
func Estimate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, err := strconv.Atoi(r.URL.Query().Get("width"))
		if err != nil || width <= 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		height, err := strconv.Atoi(r.URL.Query().Get("height"))
		if err != nil || height <= 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		estimated := compare.EstimateMemoryUsage(width, height)
		response := EstimateResponse{
			EstimatedBytes: estimated,
			EstimatedMB:    estimated / (1024 * 1024),
			Strategy:       compare.SelectStrategy(width, height, 0),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

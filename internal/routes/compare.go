package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"visual-comparator/internal/compare"
	"visual-comparator/internal/monitor"
	"visual-comparator/internal/render"
	"visual-comparator/internal/storage"
)

type CompareResponse struct {
	compare.Result
	AlertLevel monitor.AlertLevel `json:"alertLevel,omitempty"`
}

// Compare handles POST /compare: multipart baseline/actual images plus an
// optional JSON config field, returning the comparison result. When the
// comparison fails to match and an artifact store is wired, the rendered diff
// image is persisted and its URL attached to the response.
func Compare(engine *compare.Engine, performanceMonitor *monitor.PerformanceMonitor, artifacts storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		config := compare.DefaultConfig()
		if profile := r.FormValue("profile"); profile != "" {
			c, err := compare.ConfigForProfile(compare.SensitivityProfile(profile))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			config = c
		}
		if raw := r.FormValue("config"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &config); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
		}

		baseline, err := readImageForm(r, "baseline")
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		actual, err := readImageForm(r, "actual")
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		result, err := engine.Compare(baseline, actual, config)
		if err != nil {
			if errors.Is(err, compare.ErrInvalidConfig) || errors.Is(err, compare.ErrDimensionMismatch) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			slog.Error("comparison failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		result.BaselinePath = r.FormValue("baselinePath")
		result.ActualPath = r.FormValue("actualPath")

		if !result.IsMatch && artifacts != nil {
			diff := render.Diff(baseline, actual, config)

			var buffer bytes.Buffer
			if err := png.Encode(&buffer, diff); err != nil {
				slog.Error("failed to encode diff image", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			key := storage.DiffKey(result.BaselinePath, result.ActualPath, time.Now())
			diffPath, err := artifacts.Put(r.Context(), key, buffer.Bytes())
			if err != nil {
				slog.Error("failed to persist diff artifact", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			result.DiffImagePath = diffPath
		}

		response := CompareResponse{Result: *result}
		if performanceMonitor != nil {
			response.AlertLevel = performanceMonitor.CheckAlert(
				result.Metrics.ComparisonTimeMS,
				result.Metrics.MemoryUsageMB,
				result.Metrics.ImageWidth*result.Metrics.ImageHeight,
			)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func readImageForm(r *http.Request, field string) (*image.RGBA, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return compare.DecodeRGBA(data)
}

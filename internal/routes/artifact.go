package routes

import (
	"log/slog"
	"net/http"

	"visual-comparator/internal/storage"
)

// GetArtifact handles GET /artifacts?url=...: it streams a stored artifact
// (diff image, baseline, actual) back to report generators.
func GetArtifact(artifacts storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		data, err := artifacts.Get(r.Context(), url)
		if err != nil {
			slog.Error("failed to fetch artifact", "error", err, "url", url)
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", http.DetectContentType(data))
		if _, err := w.Write(data); err != nil {
			slog.Error("failed to write artifact", "error", err)
		}
	}
}

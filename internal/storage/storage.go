// Package storage persists and serves comparison artifacts: baseline and
// actual screenshots coming in, diff images going out. The comparison engine
// itself never touches storage; binaries and the HTTP server wire it in.
package storage

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"
)

type Storage interface {
	// Put stores data under the given key and returns the artifact URL.
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get retrieves data from the given artifact URL.
	Get(ctx context.Context, url string) ([]byte, error)
}

// DiffKey derives a stable artifact key for the diff of a baseline/actual
// pair: a digest prefix groups reruns of the same pair, the timestamp orders
// them.
func DiffKey(baselinePath string, actualPath string, now time.Time) string {
	h := sha256.New()
	h.Write([]byte(baselinePath + actualPath))
	digest := fmt.Sprintf("%x", h.Sum(nil))[:16]
	return fmt.Sprintf("comparisons/%s/%s.png", digest, now.Format("20060102150405"))
}

package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	"visual-comparator/internal/retry"
)

type httpStorage struct {
	client *http.Client
}

// NewHTTPStorage creates a read-only backend that fetches image bytes from
// the external asset server over HTTP with retries. Put is unsupported; diff
// artifacts belong to the file or S3 backends.
func NewHTTPStorage(ctx context.Context) (Storage, error) {
	return &httpStorage{
		client: &http.Client{
			Transport: &retry.Transport{
				RetryStrategy: retry.NewExponentialBackOff(100*time.Millisecond, 2*time.Second, 3, nil),
				RetryOn:       retry.NewDefaultPolicy(),
			},
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (h *httpStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	return "", xerrors.New("http storage is read-only")
}

func (h *httpStorage) Get(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to build asset request: %w", err)
	}

	response, err := h.client.Do(request)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch asset: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, xerrors.Errorf("asset server returned %d for %s", response.StatusCode, url)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, xerrors.Errorf("failed to read asset body: %w", err)
	}

	return data, nil
}

package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phanxgames/worldmap"
)

const defaultFetchTimeout = 30 * time.Second

// Fetch downloads and decodes a GeoJSON dataset. A nil client uses one with
// a 30 second timeout. Non-2xx responses return an error wrapping
// ErrFetchStatus that carries the status code.
func Fetch(ctx context.Context, client *http.Client, url string) ([]worldmap.Feature, error) {
	data, err := fetchBytes(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return DecodeGeoJSON(data)
}

func fetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrFetchStatus, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// Package netx contains plain-HTTP helpers for moving file bytes to and from
// the blob host. The sync engine never calls these; only the upload/download
// pipeline does.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadFromURL fetches the blob behind url and returns its bytes.
func DownloadFromURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return io.ReadAll(resp.Body)
}

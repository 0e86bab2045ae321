// Package blob uploads and removes file bytes in the S3-compatible backend.
// Metadata lives in the remote document store; blob keys and presigned URLs
// are recorded on the FileRecord.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store writes and removes raw file content. Implementations must be safe
// for concurrent use.
type Store interface {
	// Put streams body to storage under key and returns a URL the content
	// can be fetched from.
	Put(ctx context.Context, key string, body io.Reader, size int64) (string, error)
	Remove(ctx context.Context, key string) error
}

// RandomStorageKey builds a date-partitioned object key for a group upload.
func RandomStorageKey(groupID string) string {
	d := time.Now()
	return fmt.Sprintf("groups/%s/%d/%d/%d/%v", groupID, d.Year(), d.Month(), d.Day(), uuid.New())
}

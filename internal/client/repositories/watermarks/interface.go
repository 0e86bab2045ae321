// Package watermarks persists per-(principal, group) "last seen" timestamps.
// Watermarks are owned exclusively by the client and never sent upstream.
package watermarks

import "context"

// Repository stores last-seen watermarks in unix milliseconds.
type Repository interface {
	// Get returns the watermark for the pair, or 0 when none is stored yet.
	Get(ctx context.Context, principalID, groupID string) (int64, error)

	// Set advances the watermark for the pair. Values at or below the
	// stored watermark leave it unchanged.
	Set(ctx context.Context, principalID, groupID string, lastSeenMillis int64) error
}

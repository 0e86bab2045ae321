// Package common contains shared constants and sentinel errors used across
// GroupShare components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Remote-store errors.
	ErrorNotFound     = errors.New("not found")
	ErrorAccessDenied = errors.New("access denied")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Subscription lifecycle errors.
	ErrSubscriptionClosed = errors.New("subscription closed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

package remote

import (
	"errors"

	"github.com/dmitrijs2005/groupshare/internal/common"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsAccessDenied reports whether err means the document or query became
// unreachable for this principal. Callers treat this exactly like deletion,
// never as a blocking error.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrorAccessDenied) {
		return true
	}
	return status.Code(err) == codes.PermissionDenied
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrorNotFound) {
		return true
	}
	return status.Code(err) == codes.NotFound
}

// IsCancelled reports whether err resulted from the caller tearing the
// subscription or context down, as opposed to a store-side failure.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrSubscriptionClosed) {
		return true
	}
	return status.Code(err) == codes.Canceled
}

package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrStoreQuery       = errors.New("record store query failed")
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrUnsupportedQuery marks the record store rejecting a filter+order
	// combination (missing composite index). Callers recover by reissuing
	// the query without the order clause; it never reaches a user.
	ErrUnsupportedQuery = errors.New("unsupported query")

	ErrUploadFailed = errors.New("image upload failed")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

func NewUnsupportedQueryError(collection string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUnsupportedQuery,
		Details:    fmt.Sprintf("Filter+order combination rejected for collection %s", collection),
		Cause:      cause,
	}
}

// NewStoreError wraps a record store failure with details about the operation.
// Transient backend failures map to a generic 500; unreachable backends map
// to 503.
func NewStoreError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil && errors.Is(cause, ErrStoreUnavailable) {
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrStoreUnavailable,
			Details:    details,
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStoreQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewUploadError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("Failed to upload object %s", key),
		Cause:      cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnsupportedQuery(err error) bool {
	return errors.Is(err, ErrUnsupportedQuery)
}

func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

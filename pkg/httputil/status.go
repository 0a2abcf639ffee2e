package httputil

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned for 404 and 410 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrStatus is returned for any other non-2xx response.
	ErrStatus = errors.New("unexpected status")
)

// CheckStatus classifies an HTTP status code. 2xx is success, 404/410 is
// [ErrNotFound], 429 and 5xx are retryable, everything else is a plain
// [ErrStatus] failure.
func CheckStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return fmt.Errorf("%w: status %d", ErrNotFound, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrStatus, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrStatus, code)
	}
}

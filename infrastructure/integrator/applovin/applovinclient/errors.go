package applovinclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// StatusError is a non-2xx response from the management API. The status code
// decides whether the caller may retry.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("applovin api returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("applovin api returned %d", e.StatusCode)
}

// IsTransient reports whether an update may be retried: rate limiting, server
// side failures, timeouts and transport errors. Other 4xx responses are
// permanent.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Unclassified transport failures (connection reset, DNS) arrive as
	// url.Error values wrapping the above; anything that is not a status
	// error is treated as retryable.
	return !errors.As(err, &statusErr)
}

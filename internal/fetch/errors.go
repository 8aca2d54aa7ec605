package fetch

import (
	"fmt"
	"time"
)

// HTTPError is a non-2xx response from a data source.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("http error: status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("http error: status=%d url=%s", e.StatusCode, e.URL)
}

// NotFoundError indicates the dataset URL does not exist (404/410).
type NotFoundError struct{ *HTTPError }

func (e *NotFoundError) Error() string { return fmt.Sprintf("not found: %s", e.HTTPError.Error()) }

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*HTTPError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.HTTPError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.HTTPError.Error())
}

// ServerError indicates 5xx errors from the source.
type ServerError struct{ *HTTPError }

func (e *ServerError) Error() string { return fmt.Sprintf("server error: %s", e.HTTPError.Error()) }

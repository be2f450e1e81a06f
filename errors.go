package dodo

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// TaskAbortedError is returned by Agent task entry points when the run
// ended with status aborted, either via abort_work or the iteration bound.
type TaskAbortedError struct {
	Feedback string
}

func (e *TaskAbortedError) Error() string {
	return "task aborted: " + e.Feedback
}

// ErrLLM is a provider-level failure (request building, response parsing).
type ErrLLM struct {
	Provider string
	Message  string
}

func (e *ErrLLM) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// ErrHTTP is a non-2xx response from a provider API.
type ErrHTTP struct {
	Status int
	Body   string
	// RetryAfter is the server-requested delay before retrying, when the
	// response carried one. Zero means none.
	RetryAfter time.Duration
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// ParseRetryAfter parses a Retry-After header value: either delay seconds
// or an HTTP date. Returns 0 if absent or unparseable.
func ParseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

package dodo

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"
)

// retryLLM wraps an LLM and automatically retries transient HTTP errors
// (status 429 Too Many Requests and 503 Service Unavailable) with
// exponential backoff.
type retryLLM struct {
	inner       LLM
	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration // overall timeout across all attempts; 0 = no limit
}

// RetryOption configures a retrying LLM wrapper.
type RetryOption func(*retryLLM)

// RetryMaxAttempts sets the maximum number of attempts (default: 3).
func RetryMaxAttempts(n int) RetryOption {
	return func(r *retryLLM) { r.maxAttempts = n }
}

// RetryBaseDelay sets the initial backoff delay before the second attempt
// (default: 1s). Each subsequent delay doubles.
func RetryBaseDelay(d time.Duration) RetryOption {
	return func(r *retryLLM) { r.baseDelay = d }
}

// RetryTimeout sets the overall timeout for the entire retry sequence.
// The zero value (default) disables the timeout.
func RetryTimeout(d time.Duration) RetryOption {
	return func(r *retryLLM) { r.timeout = d }
}

// WithRetry wraps llm with automatic retry on transient HTTP errors
// (429, 503). Retries use exponential backoff with jitter; when the
// error carries a Retry-After duration, the delay is at least that long.
//
//	llm := dodo.WithRetry(gemini.New(apiKey, model))
//	llm := dodo.WithRetry(gemini.New(apiKey, model), dodo.RetryMaxAttempts(5))
func WithRetry(llm LLM, opts ...RetryOption) LLM {
	r := &retryLLM{
		inner:       llm,
		maxAttempts: 3,
		baseDelay:   time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CallTools implements LLM with retry.
func (r *retryLLM) CallTools(ctx context.Context, messages []Message, tools []Tool) (Message, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var last error
	for i := 0; i < r.maxAttempts; i++ {
		msg, err := r.inner.CallTools(ctx, messages, tools)
		if err == nil || !isTransient(err) {
			return msg, err
		}
		last = err
		log.Printf("[retry] transient %d (attempt %d/%d), retrying", statusOf(err), i+1, r.maxAttempts)
		if i < r.maxAttempts-1 {
			timer := time.NewTimer(retryDelay(r.baseDelay, i, err))
			select {
			case <-ctx.Done():
				timer.Stop()
				return Message{}, ctx.Err()
			case <-timer.C:
			}
		}
	}
	return Message{}, last
}

// withTimeout returns a child context with a deadline if r.timeout is
// set and ctx has no earlier one.
func (r *retryLLM) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	deadline := time.Now().Add(r.timeout)
	if existing, ok := ctx.Deadline(); ok && existing.Before(deadline) {
		return ctx, func() {}
	}
	return context.WithDeadline(ctx, deadline)
}

// isTransient reports whether err is a retryable HTTP error (429 or 503).
func isTransient(err error) bool {
	var e *ErrHTTP
	return errors.As(err, &e) && (e.Status == 429 || e.Status == 503)
}

// statusOf extracts the HTTP status code from an ErrHTTP, or 0.
func statusOf(err error) int {
	var e *ErrHTTP
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// retryDelay computes the delay before retry attempt i, using
// exponential backoff as a floor and the server's Retry-After value (if
// present) as a minimum.
func retryDelay(base time.Duration, i int, err error) time.Duration {
	backoff := retryBackoff(base, i)
	var e *ErrHTTP
	if errors.As(err, &e) && e.RetryAfter > backoff {
		return e.RetryAfter
	}
	return backoff
}

// retryBackoff returns the delay for retry i (0-indexed).
// Exponential: base * 2^i, plus up to 50% random jitter.
func retryBackoff(base time.Duration, i int) time.Duration {
	exp := base * (1 << i)
	jitter := time.Duration(rand.Int63n(int64(exp)/2 + 1))
	return exp + jitter
}

// compile-time check
var _ LLM = (*retryLLM)(nil)

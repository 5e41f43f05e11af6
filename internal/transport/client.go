// Package transport holds the ambient HTTP concerns shared by every
// connector: client construction, rate limiting, and retry/backoff.
package transport

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewDefaultClient creates a plain HTTP client with a fixed timeout. Reused
// across calls by the connector that owns it; there is no pool beyond what
// net/http already maintains.
func NewDefaultClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// RateLimitedTransport wraps an http.RoundTripper with a token-bucket limiter
// so a single connector never exceeds its provider's rate limit regardless
// of how many goroutines are issuing calls to it concurrently.
type RateLimitedTransport struct {
	Next    http.RoundTripper
	Limiter *rate.Limiter
}

// NewRateLimitedClient builds a client that blocks (honoring ctx
// cancellation on the request) until the rate limiter admits the request.
func NewRateLimitedClient(timeout time.Duration, ratePerSecond float64, burst int) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	next := http.DefaultTransport
	return &http.Client{
		Timeout: timeout,
		Transport: &RateLimitedTransport{
			Next:    next,
			Limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		},
	}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

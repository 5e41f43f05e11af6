package transport

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
)

// RetryPolicy implements retry with exponential backoff and jitter, up to
// MaxAttempts retries, honoring Retry-After on HTTP 429.
type RetryPolicy struct {
	MaxAttempts             int
	InitialBackoff          time.Duration
	MaxBackoff              time.Duration
	BackoffMultiplier       float64
	RetryAfter429Multiplier float64
	RetryableStatusCodes    map[int]bool
}

// DefaultRetryPolicy returns the standard policy: 4 retries, 700ms initial
// delay, 1.6x multiplier (1.8x for 429).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:             4,
		InitialBackoff:          700 * time.Millisecond,
		MaxBackoff:              10 * time.Second,
		BackoffMultiplier:       1.6,
		RetryAfter429Multiplier: 1.8,
		RetryableStatusCodes:    map[int]bool{408: true, 429: true, 500: true, 502: true, 503: true, 504: true},
	}
}

// ShouldRetry reports whether a given attempt (0-indexed) should be retried
// given the observed status code (0 if no response was received) and error.
func (p RetryPolicy) ShouldRetry(attempt int, statusCode int, err error) bool {
	if attempt >= p.MaxAttempts {
		return false
	}
	if statusCode != 0 {
		return p.RetryableStatusCodes[statusCode]
	}
	if err != nil {
		return isRetryableError(err)
	}
	return false
}

// CalculateBackoff returns the delay before the given retry attempt
// (0-indexed), applying the 429-specific multiplier and jitter of ±25%, or
// honoring the server's Retry-After header when present.
func (p RetryPolicy) CalculateBackoff(attempt int, statusCode int, retryAfter string) time.Duration {
	if statusCode == http.StatusTooManyRequests {
		if d, ok := parseRetryAfter(retryAfter); ok {
			return d
		}
	}

	multiplier := p.BackoffMultiplier
	if statusCode == http.StatusTooManyRequests {
		multiplier = p.RetryAfter429Multiplier
	}

	backoff := float64(p.InitialBackoff) * pow(multiplier, attempt)
	if backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}

	jitter := backoff * (rand.Float64()*0.5 - 0.25) // +/-25%
	result := time.Duration(backoff + jitter)
	if result < 0 {
		result = 0
	}
	return result
}

func parseRetryAfter(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second, true
	}
	if t, err := http.ParseTime(header); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// Attempt is the outcome of one try passed to ExecuteWithRetry.
type Attempt struct {
	StatusCode int
	RetryAfter string
	Err        error
}

// ExecuteWithRetry calls fn until it succeeds, exhausts MaxAttempts, or ctx
// is canceled, sleeping with CalculateBackoff between attempts. fn reports
// its own outcome via Attempt so the caller controls what counts as
// retryable (HTTP status vs. transport error).
func ExecuteWithRetry(ctx context.Context, logger arbor.ILogger, policy RetryPolicy, fn func(attempt int) (Attempt, error)) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !policy.ShouldRetry(attempt, result.StatusCode, result.Err) {
			return lastErr
		}

		backoff := policy.CalculateBackoff(attempt, result.StatusCode, result.RetryAfter)
		logger.Warn().
			Int("attempt", attempt+1).
			Int("max_attempts", policy.MaxAttempts).
			Int("status_code", result.StatusCode).
			Dur("backoff", backoff).
			Err(lastErr).
			Msg("retrying request")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func isRetryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

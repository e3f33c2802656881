// # internal/shared/util/limiter.go
package util

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket that reports when a caller had to wait.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter allows perSecond events on average with bursts of burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow takes a token if one is available right now.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait takes a token, blocking until one is available. The bool is true
// when the call was delayed.
func (l *Limiter) Wait(ctx context.Context) (bool, error) {
	if l.inner.Allow() {
		return false, nil
	}
	return true, l.inner.Wait(ctx)
}

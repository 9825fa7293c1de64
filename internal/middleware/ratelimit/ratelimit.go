// Package ratelimit throttles the simulation endpoints per client.
package ratelimit

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	applog "juros/internal/log"
)

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = d.RequestsPerMinute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}

// Metrics for monitoring rate limit behaviour
type Metrics struct {
	Allowed    int64
	Rejected   int64
	StoreError int64
}

// MetricsCollector tracks rate limiting outcomes
type MetricsCollector struct {
	allowed    atomic.Int64
	rejected   atomic.Int64
	storeError atomic.Int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (m *MetricsCollector) GetMetrics() Metrics {
	return Metrics{
		Allowed:    m.allowed.Load(),
		Rejected:   m.rejected.Load(),
		StoreError: m.storeError.Load(),
	}
}

// Middleware rejects requests over the limit with 429. When the limiter's
// store fails the request is let through and a warning is logged.
func Middleware(l Limiter, metrics *MetricsCollector, extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	if metrics == nil {
		metrics = NewMetricsCollector()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractIP(r)

			ok, err := l.Allow(r.Context(), clientIP)
			if err != nil {
				metrics.storeError.Add(1)
				applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).
					WarnContext(r.Context(), "Rate limiter unavailable, allowing request",
						applog.FieldClientIP, clientIP, applog.FieldError, err.Error())
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.rejected.Add(1)
				if onLimit != nil {
					onLimit(w, r)
				} else {
					w.Header().Set("Retry-After", "60")
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			metrics.allowed.Add(1)
			next.ServeHTTP(w, r)
		})
	}
}

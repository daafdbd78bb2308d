package jsontl

import (
	"context"
	"sync"
	"time"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // sustained request rate (default: 60)
	BurstSize         int // bucket capacity (default: same as RPM)
}

// RateLimiter is a token bucket. One limiter is shared across all
// per-worker clients, capping the aggregate outbound call rate of the
// whole scheduler rather than each worker individually.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	perSec   float64 // refill rate in tokens per second
	updated  time.Time
}

// NewRateLimiter creates a full bucket from the configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}
	capacity := float64(cfg.BurstSize)
	if capacity <= 0 {
		capacity = rpm
	}

	return &RateLimiter{
		tokens:   capacity,
		capacity: capacity,
		perSec:   rpm / 60.0,
		updated:  time.Now(),
	}
}

// credit adds the tokens accrued since the last update. Callers hold mu.
func (r *RateLimiter) credit() {
	now := time.Now()
	r.tokens += now.Sub(r.updated).Seconds() * r.perSec
	if r.tokens > r.capacity {
		r.tokens = r.capacity
	}
	r.updated = now
}

// TryAcquire takes one token if available, without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.credit()
	if r.tokens < 1 {
		return false
	}
	r.tokens--
	return true
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.credit()
		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		// Sleep exactly long enough for the deficit to refill.
		wait := time.Duration((1 - r.tokens) / r.perSec * float64(time.Second))
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credit()
	return r.tokens
}

// RateLimitedClient wraps a Client so Translate calls draw from a shared
// token bucket. Detection is local and not limited.
type RateLimitedClient struct {
	client  Client
	limiter *RateLimiter
}

// NewRateLimitedClient creates a new rate-limited client. The limiter may
// be shared across clients.
func NewRateLimitedClient(client Client, limiter *RateLimiter) *RateLimitedClient {
	return &RateLimitedClient{client: client, limiter: limiter}
}

// Translate implements Client with rate limiting.
func (c *RateLimitedClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Message: "rate limit wait cancelled",
			Cause:   err,
		}
	}
	return c.client.Translate(ctx, text, sourceLang, targetLang)
}

// DetectLanguage implements Client without limiting.
func (c *RateLimitedClient) DetectLanguage(ctx context.Context, samples []string) (string, error) {
	return c.client.DetectLanguage(ctx, samples)
}

// Limiter returns the underlying rate limiter for inspection.
func (c *RateLimitedClient) Limiter() *RateLimiter {
	return c.limiter
}

// RateLimitedFactory wraps a factory so every constructed client shares
// one rate limiter.
func RateLimitedFactory(factory ClientFactory, cfg RateLimitConfig) ClientFactory {
	limiter := NewRateLimiter(cfg)
	return func() Client {
		return NewRateLimitedClient(factory(), limiter)
	}
}

var _ Client = (*RateLimitedClient)(nil)

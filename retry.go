package jsontl

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls the exponential backoff applied to retryable
// provider failures.
type RetryConfig struct {
	MaxRetries int           // retries after the initial attempt
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // ceiling for the doubled delay
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the delay preceding retry number attempt (0-based).
func (cfg RetryConfig) backoff(attempt int) time.Duration {
	delay := cfg.BaseDelay << attempt
	if delay > cfg.MaxDelay || delay <= 0 {
		return cfg.MaxDelay
	}
	return delay
}

// WithRetry runs fn until it succeeds, returns a non-retryable error, or
// the attempt budget is exhausted. The context is honored both between
// attempts and while sleeping.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}
}

// IsRetryable reports whether an error is worth retrying. Only provider
// errors flagged Retryable qualify; context cancellation never does.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryingClient wraps a Client with retry logic on Translate calls.
// Detection is local and cheap, so it is passed through untouched.
type RetryingClient struct {
	client Client
	config RetryConfig
}

// NewRetryingClient creates a new client with retry logic.
func NewRetryingClient(client Client, cfg RetryConfig) *RetryingClient {
	return &RetryingClient{client: client, config: cfg}
}

// Translate implements Client with retry logic.
func (c *RetryingClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return WithRetry(ctx, c.config, func() (string, error) {
		return c.client.Translate(ctx, text, sourceLang, targetLang)
	})
}

// DetectLanguage implements Client. Detection is not retried.
func (c *RetryingClient) DetectLanguage(ctx context.Context, samples []string) (string, error) {
	return c.client.DetectLanguage(ctx, samples)
}

// RetryingFactory wraps a factory so every constructed client retries.
func RetryingFactory(factory ClientFactory, cfg RetryConfig) ClientFactory {
	return func() Client {
		return NewRetryingClient(factory(), cfg)
	}
}

var _ Client = (*RetryingClient)(nil)

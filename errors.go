package jsontl

import "fmt"

// ProviderError indicates a translation provider failure (API error, rate limit, etc.).
// Provider failures never abort a run: the affected leaf keeps its original text.
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// DetectionError indicates that language detection failed or was ambiguous.
// It is fatal only when no explicit source language was configured.
type DetectionError struct {
	Message string
	Cause   error
}

func (e *DetectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("detection error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("detection error: %s", e.Message)
}

func (e *DetectionError) Unwrap() error {
	return e.Cause
}

// ConfigurationError indicates an invalid pipeline configuration.
// Configuration errors are fatal and surface before any work is dispatched.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// MismatchWarning reports that the number of placeholder markers surviving
// translation differs from the number of extracted tokens. The leaf is
// restored best-effort; the warning is carried in the run summary.
type MismatchWarning struct {
	Markers int // markers found in the translated text
	Tokens  int // tokens extracted from the source text
}

func (w *MismatchWarning) Error() string {
	return fmt.Sprintf("placeholder mismatch: %d markers survived translation, expected %d", w.Markers, w.Tokens)
}

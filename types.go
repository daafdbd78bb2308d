package jsontl

import (
	"context"

	"github.com/translatekit/jsontl/document"
)

// Client is the interface for one remote translation backend.
//
// Implementations are not required to be safe for concurrent use: the
// scheduler constructs a fresh Client per worker through a ClientFactory
// and never shares one instance across goroutines.
type Client interface {
	// Translate translates a single text from sourceLang to targetLang.
	// Failures are reported as *ProviderError.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// DetectLanguage guesses the language of the given sample texts.
	// Returns a *DetectionError when the samples are ambiguous or empty.
	DetectLanguage(ctx context.Context, samples []string) (string, error)
}

// ClientFactory constructs an independent Client for one worker.
type ClientFactory func() Client

// Cache is the interface for translation caching.
type Cache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found.
	Get(key string) (string, bool)

	// Set stores a translation in the cache. Concurrent Sets of the same
	// key must be safe; entries are never mutated once written.
	Set(key string, value string) error
}

// ProgressFunc is called as leaves complete. done increases monotonically
// up to total; the callback must be cheap and is only for observability.
type ProgressFunc func(done, total int)

// Issue is a per-leaf failure or warning recorded during a run.
type Issue struct {
	Path string // path of the affected leaf
	Err  error  // *ProviderError or *MismatchWarning
}

// Summary contains counts and per-leaf reports for one pipeline run.
type Summary struct {
	Leaves        int     // translatable leaves considered this run
	CacheHits     int     // leaves resolved from the cache
	ProviderCalls int     // provider round trips performed
	Reused        int     // leaves copied verbatim from a previous output (diff mode)
	Failures      []Issue // leaves degraded to their original text
	Warnings      []Issue // placeholder marker mismatches
}

// Result is the outcome of one pipeline run. Document is always complete:
// failed leaves carry their original, untranslated text.
type Result struct {
	Document document.Value
	Summary  Summary
}

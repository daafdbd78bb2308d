package jsontl

import (
	"context"
	"fmt"

	"github.com/translatekit/jsontl/document"
)

// Pipeline translates JSON document trees into one target language.
// Construct one Pipeline per target; a Pipeline is safe to reuse across
// runs.
type Pipeline struct {
	targetLang string
	sourceLang string // empty means auto-detect per run
	clients    ClientFactory

	cache        Cache
	cacheEnabled bool

	batchSize        int
	superBatchSize   int
	outerConcurrency int
	innerConcurrency int

	glossary *Glossary
	progress ProgressFunc
	codec    *PlaceholderCodec
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithSourceLang sets the source language. When unset, the source
// language is detected from the document's text samples on each run.
func WithSourceLang(lang string) PipelineOption {
	return func(p *Pipeline) {
		p.sourceLang = lang
	}
}

// WithCache sets the translation cache.
func WithCache(cache Cache) PipelineOption {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// WithCacheEnabled toggles cache reads. When disabled, every lookup is a
// miss, but successful translations are still written through so later
// cache-enabled runs benefit.
func WithCacheEnabled(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.cacheEnabled = enabled
	}
}

// WithBatchSize sets the inner batch size.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		p.batchSize = n
	}
}

// WithSuperBatchSize sets the super-batch size.
func WithSuperBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		p.superBatchSize = n
	}
}

// WithConcurrency sets the outer (super-batch) and inner (per-super-batch
// worker) concurrency bounds.
func WithConcurrency(outer, inner int) PipelineOption {
	return func(p *Pipeline) {
		p.outerConcurrency = outer
		p.innerConcurrency = inner
	}
}

// WithGlossary sets the glossary applied after placeholder restoration.
func WithGlossary(g *Glossary) PipelineOption {
	return func(p *Pipeline) {
		p.glossary = g
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) PipelineOption {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// NewPipeline creates a Pipeline for the given target language. Invalid
// configuration returns a ConfigurationError before any work can start.
func NewPipeline(targetLang string, clients ClientFactory, opts ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{
		targetLang:       targetLang,
		clients:          clients,
		cacheEnabled:     true,
		batchSize:        8,
		superBatchSize:   40,
		outerConcurrency: 4,
		innerConcurrency: 4,
		codec:            NewPlaceholderCodec(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) validate() error {
	if p.clients == nil {
		return &ConfigurationError{Message: "a client factory is required"}
	}
	if !IsSupported(p.targetLang) {
		return &ConfigurationError{Message: fmt.Sprintf("unsupported target language %q", p.targetLang)}
	}
	if p.sourceLang != "" && !IsSupported(p.sourceLang) {
		return &ConfigurationError{Message: fmt.Sprintf("unsupported source language %q", p.sourceLang)}
	}
	if p.batchSize <= 0 {
		return &ConfigurationError{Message: fmt.Sprintf("batch size must be positive, got %d", p.batchSize)}
	}
	if p.superBatchSize <= 0 {
		return &ConfigurationError{Message: fmt.Sprintf("super-batch size must be positive, got %d", p.superBatchSize)}
	}
	if p.outerConcurrency <= 0 || p.innerConcurrency <= 0 {
		return &ConfigurationError{Message: fmt.Sprintf("concurrency must be positive, got outer=%d inner=%d", p.outerConcurrency, p.innerConcurrency)}
	}
	return nil
}

// TargetLang returns the target language.
func (p *Pipeline) TargetLang() string {
	return p.targetLang
}

// SourceLang returns the configured source language, or empty when the
// pipeline auto-detects.
func (p *Pipeline) SourceLang() string {
	return p.sourceLang
}

// Translate translates every leaf of the document.
func (p *Pipeline) Translate(ctx context.Context, doc document.Value) (*Result, error) {
	return p.run(ctx, doc, nil)
}

// TranslateDiff translates only the leaves that are new or changed since
// a previous run, copying every other leaf's previous translation
// verbatim. prevInput and prevOutput are the previous run's source and
// result documents.
func (p *Pipeline) TranslateDiff(ctx context.Context, doc, prevInput, prevOutput document.Value) (*Result, error) {
	if prevInput == nil || prevOutput == nil {
		return nil, &ConfigurationError{Message: "diff mode requires the previous input and output documents"}
	}
	return p.run(ctx, doc, Diff(prevInput, prevOutput, doc))
}

func (p *Pipeline) run(ctx context.Context, doc document.Value, diff *DiffResult) (*Result, error) {
	sourceLang, err := p.resolveSourceLang(ctx, doc)
	if err != nil {
		return nil, err
	}

	// Nothing to do when the document is already in the target language.
	if sourceLang == p.targetLang {
		return &Result{Document: document.Clone(doc)}, nil
	}

	var leaves []document.Leaf
	translations := make(map[string]string)
	summary := Summary{}

	if diff != nil {
		leaves = diff.Changed
		for path, previous := range diff.Reused {
			translations[path] = previous
		}
		summary.Reused = len(diff.Reused)
	} else {
		leaves = document.Extract(doc)
	}
	summary.Leaves = len(leaves) + summary.Reused

	if len(leaves) == 0 {
		return &Result{
			Document: document.Reassemble(doc, translations),
			Summary:  summary,
		}, nil
	}

	// Protect placeholders. The cache and the provider only ever see
	// stripped texts, so placeholder values never fragment the cache.
	stripped := make([]string, len(leaves))
	tokens := make([][]PlaceholderToken, len(leaves))
	for i, leaf := range leaves {
		stripped[i], tokens[i] = p.codec.Protect(leaf.Text)
	}

	sched := &scheduler{
		cache:          p.cache,
		cacheEnabled:   p.cacheEnabled,
		clients:        p.clients,
		sourceLang:     sourceLang,
		targetLang:     p.targetLang,
		batchSize:      p.batchSize,
		superBatchSize: p.superBatchSize,
		outer:          p.outerConcurrency,
		inner:          p.innerConcurrency,
		progress:       p.progress,
	}
	batch := sched.run(ctx, stripped)

	summary.CacheHits = int(batch.cacheHits)
	summary.ProviderCalls = int(batch.providerCalls)

	for i, leaf := range leaves {
		path := leaf.Path.String()

		if batch.errs[i] != nil {
			// Degraded leaf: restore the original text untouched.
			restored, _ := p.codec.Restore(batch.texts[i], tokens[i])
			translations[path] = restored
			summary.Failures = append(summary.Failures, Issue{Path: path, Err: batch.errs[i]})
			continue
		}

		restored, warning := p.codec.Restore(batch.texts[i], tokens[i])
		if warning != nil {
			summary.Warnings = append(summary.Warnings, Issue{Path: path, Err: warning})
		}
		translations[path] = p.glossary.Apply(restored)
	}

	return &Result{
		Document: document.Reassemble(doc, translations),
		Summary:  summary,
	}, nil
}

// resolveSourceLang returns the configured source language, or detects
// one from the document. Detection failure without an explicit source is
// fatal: the caller must supply one.
func (p *Pipeline) resolveSourceLang(ctx context.Context, doc document.Value) (string, error) {
	if p.sourceLang != "" {
		return p.sourceLang, nil
	}

	samples := document.CollectSamples(doc, 20)
	if len(samples) == 0 {
		return "", &DetectionError{Message: "no text found for language detection; set a source language"}
	}

	client := p.clients()
	code, err := client.DetectLanguage(ctx, samples)
	if err != nil {
		return "", err
	}

	normalized := NormalizeDetected(code)
	if normalized == "" {
		return "", &DetectionError{
			Message: fmt.Sprintf("detected unsupported language %q; set a source language", code),
		}
	}
	return normalized, nil
}

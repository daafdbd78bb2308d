package jsontl

import (
	"context"
	"sync"
	"sync/atomic"
)

// scheduler runs the two-level concurrent fan-out over an ordered text
// sequence: the sequence is partitioned into super-batches of
// superBatchSize dispatched under the outer concurrency bound, and each
// super-batch is partitioned into batches of batchSize consumed by a
// per-super-batch worker pool of inner workers, each with its own Client.
//
// Effective maximum concurrency is
// min(outer, ceil(N/superBatchSize)) * inner.
type scheduler struct {
	cache        Cache
	cacheEnabled bool
	clients      ClientFactory
	sourceLang   string
	targetLang   string

	batchSize      int
	superBatchSize int
	outer          int
	inner          int

	progress ProgressFunc
}

// batchResult carries per-index outcomes, aligned with the input order.
type batchResult struct {
	texts     []string // translated texts; failed slots hold the original text
	errs      []error  // per-index provider error, nil on success
	fromCache []bool   // per-index: resolved by a cache read

	// cacheHits counts leaves resolved from the cache, duplicates
	// included. providerCalls counts actual provider round trips.
	cacheHits     int64
	providerCalls int64
}

// run translates texts and returns results in input order. Results are
// written into pre-sized slots addressed by index, never appended in
// completion order. Duplicate texts are translated once and fanned back
// to every occurrence.
func (s *scheduler) run(ctx context.Context, texts []string) *batchResult {
	n := len(texts)
	result := &batchResult{
		texts:     make([]string, n),
		errs:      make([]error, n),
		fromCache: make([]bool, n),
	}
	if n == 0 {
		return result
	}

	// Deduplicate: schedule the first occurrence of each text, remember
	// the rest. This guarantees at most one provider call (and one cache
	// write) per unique text within the run.
	first := make(map[string]int, n)
	duplicates := make(map[int][]int)
	var unique []int
	for i, text := range texts {
		if j, ok := first[text]; ok {
			duplicates[j] = append(duplicates[j], i)
			continue
		}
		first[text] = i
		unique = append(unique, i)
	}

	// The progress counter counts completed leaves, including duplicates
	// resolved by a scheduled one. Observability only; never gates work.
	var done int64
	completed := func(idx int) {
		d := atomic.AddInt64(&done, int64(1+len(duplicates[idx])))
		if s.progress != nil {
			s.progress(int(d), n)
		}
	}

	sem := make(chan struct{}, s.outer)
	var wg sync.WaitGroup
	for _, super := range chunk(unique, s.superBatchSize) {
		wg.Add(1)
		sem <- struct{}{}
		go func(super []int) {
			defer wg.Done()
			defer func() { <-sem }()
			s.runSuperBatch(ctx, texts, super, result, completed)
		}(super)
	}
	wg.Wait()

	for j, indexes := range duplicates {
		for _, i := range indexes {
			result.texts[i] = result.texts[j]
			result.errs[i] = result.errs[j]
			result.fromCache[i] = result.fromCache[j]
		}
	}
	for _, hit := range result.fromCache {
		if hit {
			result.cacheHits++
		}
	}

	return result
}

// runSuperBatch fans the super-batch's inner batches out to a worker
// pool. Each worker constructs its own Client: provider clients are not
// assumed safe for concurrent calls.
func (s *scheduler) runSuperBatch(ctx context.Context, texts []string, indexes []int, result *batchResult, completed func(int)) {
	batches := chunk(indexes, s.batchSize)

	workers := s.inner
	if workers > len(batches) {
		workers = len(batches)
	}

	jobs := make(chan []int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := s.clients()
			for batch := range jobs {
				for _, i := range batch {
					s.translateOne(ctx, client, texts[i], i, result)
					completed(i)
				}
			}
		}()
	}

	for _, batch := range batches {
		jobs <- batch
	}
	close(jobs)
	wg.Wait()
}

// translateOne resolves one text: cache first, provider on miss. Provider
// failures degrade to the original text and are recorded per index.
func (s *scheduler) translateOne(ctx context.Context, client Client, text string, i int, result *batchResult) {
	key := Key(s.sourceLang, s.targetLang, text)

	if s.cacheEnabled && s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			result.texts[i] = cached
			result.fromCache[i] = true
			return
		}
	}

	atomic.AddInt64(&result.providerCalls, 1)
	translated, err := client.Translate(ctx, text, s.sourceLang, s.targetLang)
	if err != nil {
		result.texts[i] = text
		result.errs[i] = err
		return
	}

	result.texts[i] = translated
	if s.cache != nil {
		_ = s.cache.Set(key, translated) // Ignore cache set errors
	}
}

// chunk splits indexes into contiguous slices of at most size elements.
func chunk(indexes []int, size int) [][]int {
	var out [][]int
	for len(indexes) > size {
		out = append(out, indexes[:size])
		indexes = indexes[size:]
	}
	if len(indexes) > 0 {
		out = append(out, indexes)
	}
	return out
}

package jsontl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// stubClient is a concurrency-safe Client for scheduler tests. Sharing a
// single instance across workers lets tests aggregate call counts.
type stubClient struct {
	mu         sync.Mutex
	failTexts  map[string]bool
	detectCode string
	detectErr  error
	calls      int
	seen       map[string]int
}

func newStubClient() *stubClient {
	return &stubClient{
		failTexts:  make(map[string]bool),
		detectCode: "en",
		seen:       make(map[string]int),
	}
}

func (c *stubClient) Translate(_ context.Context, text, _, targetLang string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.seen[text]++
	fail := c.failTexts[text]
	c.mu.Unlock()

	if fail {
		return "", &ProviderError{Message: "stub failure"}
	}
	return targetLang + ":" + text, nil
}

func (c *stubClient) DetectLanguage(_ context.Context, _ []string) (string, error) {
	if c.detectErr != nil {
		return "", c.detectErr
	}
	return c.detectCode, nil
}

func (c *stubClient) factory() ClientFactory {
	return func() Client { return c }
}

func (c *stubClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// stubCache is a minimal thread-safe Cache for scheduler tests.
type stubCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (c *stubCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *stubCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *stubCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func newTestScheduler(client Client, cache Cache) *scheduler {
	return &scheduler{
		cache:          cache,
		cacheEnabled:   true,
		clients:        func() Client { return client },
		sourceLang:     "en",
		targetLang:     "es",
		batchSize:      3,
		superBatchSize: 10,
		outer:          2,
		inner:          2,
	}
}

func TestScheduler_OrderPreserved(t *testing.T) {
	configs := []struct {
		batch, super, outer, inner int
	}{
		{1, 1, 1, 1},
		{3, 10, 2, 2},
		{8, 40, 4, 4},
		{100, 100, 1, 8},
		{2, 5, 8, 3},
	}

	texts := make([]string, 97)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	for _, cfg := range configs {
		name := fmt.Sprintf("b%d_s%d_o%d_i%d", cfg.batch, cfg.super, cfg.outer, cfg.inner)
		t.Run(name, func(t *testing.T) {
			s := newTestScheduler(newStubClient(), nil)
			s.batchSize = cfg.batch
			s.superBatchSize = cfg.super
			s.outer = cfg.outer
			s.inner = cfg.inner

			result := s.run(context.Background(), texts)

			for i, text := range texts {
				expected := "es:" + text
				if result.texts[i] != expected {
					t.Errorf("Index %d: expected %q, got %q", i, expected, result.texts[i])
				}
			}
		})
	}
}

func TestScheduler_DeduplicatesTexts(t *testing.T) {
	client := newStubClient()
	s := newTestScheduler(client, nil)

	texts := []string{"Hello", "World", "Hello", "Hello", "World"}
	result := s.run(context.Background(), texts)

	if client.callCount() != 2 {
		t.Errorf("Expected 2 provider calls for 2 unique texts, got %d", client.callCount())
	}
	for i, text := range texts {
		if result.texts[i] != "es:"+text {
			t.Errorf("Index %d: expected %q, got %q", i, "es:"+text, result.texts[i])
		}
	}
	if result.providerCalls != 2 {
		t.Errorf("Expected providerCalls 2, got %d", result.providerCalls)
	}
}

func TestScheduler_ProgressMonotonic(t *testing.T) {
	texts := make([]string, 30)
	for i := range texts {
		texts[i] = fmt.Sprintf("line %d", i)
	}
	// Duplicates must be credited to the counter too.
	texts = append(texts, "line 0", "line 1")

	var mu sync.Mutex
	var reports []int
	s := newTestScheduler(newStubClient(), nil)
	s.progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != len(texts) {
			t.Errorf("Expected total %d, got %d", len(texts), total)
		}
		reports = append(reports, done)
	}

	s.run(context.Background(), texts)

	if len(reports) == 0 {
		t.Fatal("Expected progress reports")
	}
	last := 0
	for _, done := range reports {
		if done < last {
			t.Errorf("Progress went backwards: %d after %d", done, last)
		}
		last = done
	}
	if last != len(texts) {
		t.Errorf("Expected final progress %d, got %d", len(texts), last)
	}
}

func TestScheduler_FailureDegradesToOriginal(t *testing.T) {
	client := newStubClient()
	client.failTexts["Broken"] = true
	s := newTestScheduler(client, nil)

	texts := []string{"Fine", "Broken", "Also fine"}
	result := s.run(context.Background(), texts)

	if result.texts[1] != "Broken" {
		t.Errorf("Expected failed slot to keep original text, got %q", result.texts[1])
	}
	if result.errs[1] == nil {
		t.Error("Expected an error recorded for the failed slot")
	}
	if result.errs[0] != nil || result.errs[2] != nil {
		t.Error("Expected no errors for successful slots")
	}
	if result.texts[0] != "es:Fine" || result.texts[2] != "es:Also fine" {
		t.Error("Neighboring slots affected by the failure")
	}
}

func TestScheduler_CacheHitSkipsProvider(t *testing.T) {
	client := newStubClient()
	cache := newStubCache()
	cache.data[Key("en", "es", "Hello")] = "Hola"

	s := newTestScheduler(client, cache)
	result := s.run(context.Background(), []string{"Hello", "World"})

	if result.texts[0] != "Hola" {
		t.Errorf("Expected cached 'Hola', got %q", result.texts[0])
	}
	if result.cacheHits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", result.cacheHits)
	}
	if result.providerCalls != 1 {
		t.Errorf("Expected 1 provider call, got %d", result.providerCalls)
	}
	if client.callCount() != 1 {
		t.Errorf("Expected client called once, got %d", client.callCount())
	}
}

func TestScheduler_DuplicateOfCachedTextCountsAsHit(t *testing.T) {
	client := newStubClient()
	cache := newStubCache()
	cache.data[Key("en", "es", "Hello")] = "Hola"

	s := newTestScheduler(client, cache)
	result := s.run(context.Background(), []string{"Hello", "Hello"})

	if client.callCount() != 0 {
		t.Errorf("Expected 0 provider calls, got %d", client.callCount())
	}
	if result.cacheHits != 2 {
		t.Errorf("Expected both leaves counted as cache hits, got %d", result.cacheHits)
	}
}

func TestScheduler_WritesThroughCache(t *testing.T) {
	cache := newStubCache()
	s := newTestScheduler(newStubClient(), cache)

	s.run(context.Background(), []string{"Hello"})

	if v, ok := cache.Get(Key("en", "es", "Hello")); !ok || v != "es:Hello" {
		t.Errorf("Expected translation written through to cache, got %q (found=%v)", v, ok)
	}
}

func TestScheduler_FailureNotCached(t *testing.T) {
	client := newStubClient()
	client.failTexts["Broken"] = true
	cache := newStubCache()
	s := newTestScheduler(client, cache)

	s.run(context.Background(), []string{"Broken"})

	if _, ok := cache.Get(Key("en", "es", "Broken")); ok {
		t.Error("Expected no cache entry for a failed translation")
	}
	if cache.setCount() != 0 {
		t.Errorf("Expected 0 cache writes, got %d", cache.setCount())
	}
}

func TestScheduler_CacheDisabledStillWrites(t *testing.T) {
	client := newStubClient()
	cache := newStubCache()
	cache.data[Key("en", "es", "Hello")] = "stale"

	s := newTestScheduler(client, cache)
	s.cacheEnabled = false
	result := s.run(context.Background(), []string{"Hello"})

	// Reads are bypassed: the provider answers, not the stale entry.
	if result.texts[0] != "es:Hello" {
		t.Errorf("Expected fresh provider translation, got %q", result.texts[0])
	}
	if result.cacheHits != 0 {
		t.Errorf("Expected 0 cache hits, got %d", result.cacheHits)
	}
	// The fresh result is still written through.
	if v, _ := cache.Get(Key("en", "es", "Hello")); v != "es:Hello" {
		t.Errorf("Expected write-through to replace stale entry, got %q", v)
	}
}

func TestScheduler_AtMostOneWritePerUniqueText(t *testing.T) {
	cache := newStubCache()
	s := newTestScheduler(newStubClient(), cache)

	texts := []string{"Same", "Same", "Same", "Same", "Other"}
	s.run(context.Background(), texts)

	if cache.setCount() != 2 {
		t.Errorf("Expected 2 cache writes for 2 unique texts, got %d", cache.setCount())
	}
}

func TestScheduler_EmptyInput(t *testing.T) {
	s := newTestScheduler(newStubClient(), nil)
	result := s.run(context.Background(), nil)

	if len(result.texts) != 0 || len(result.errs) != 0 {
		t.Error("Expected empty result for empty input")
	}
}

func TestChunk(t *testing.T) {
	indexes := []int{0, 1, 2, 3, 4, 5, 6}

	chunks := chunk(indexes, 3)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Errorf("Unexpected chunk sizes: %d, %d, %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	if got := chunk(nil, 3); len(got) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(got))
	}

	if got := chunk([]int{1, 2}, 10); len(got) != 1 {
		t.Errorf("Expected 1 chunk when size exceeds input, got %d", len(got))
	}
}

func TestScheduler_LargeRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large run in short mode")
	}

	texts := make([]string, 500)
	for i := range texts {
		texts[i] = fmt.Sprintf("sentence number %d", i)
	}

	s := newTestScheduler(newStubClient(), newStubCache())
	result := s.run(context.Background(), texts)

	for i, text := range texts {
		if !strings.HasSuffix(result.texts[i], text) {
			t.Fatalf("Index %d out of order: %q", i, result.texts[i])
		}
	}
}

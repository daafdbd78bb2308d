package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/translatekit/jsontl"
)

// MockClient is a mock translation client for testing. Unlike real
// clients it is safe for concurrent use, so a single instance can be
// handed to every scheduler worker to aggregate call counts.
type MockClient struct {
	mu           sync.Mutex
	Translations map[string]string // Map of source text to translation
	FailTexts    map[string]bool   // Texts that fail with a ProviderError
	DetectResult string            // Language code returned by DetectLanguage
	Delay        time.Duration     // Optional artificial latency per call

	callCount int
}

// NewMockClient creates a new mock client with default translations.
func NewMockClient() *MockClient {
	return &MockClient{
		Translations: map[string]string{
			"Hello":       "Hola",
			"World":       "Mundo",
			"Hello World": "Hola Mundo",
			"Goodbye":     "Adiós",
		},
		FailTexts:    make(map[string]bool),
		DetectResult: "en",
	}
}

// Translate returns mock translations.
func (m *MockClient) Translate(_ context.Context, text, _, _ string) (string, error) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	m.callCount++
	fail := m.FailTexts[text]
	translation, known := m.Translations[text]
	m.mu.Unlock()

	if fail {
		return "", &jsontl.ProviderError{Message: "mock failure", Retryable: false}
	}
	if known {
		return translation, nil
	}
	// Return bracketed text for unknown translations
	return fmt.Sprintf("[%s]", text), nil
}

// DetectLanguage returns the configured detection result.
func (m *MockClient) DetectLanguage(_ context.Context, _ []string) (string, error) {
	if m.DetectResult == "" {
		return "", &jsontl.DetectionError{Message: "mock detection failure"}
	}
	return m.DetectResult, nil
}

// CallCount returns the number of Translate calls across all workers.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset resets the call count.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
}

// Factory returns a ClientFactory handing the same mock to every worker.
func (m *MockClient) Factory() jsontl.ClientFactory {
	return func() jsontl.Client {
		return m
	}
}

// Verify MockClient implements Client
var _ Client = (*MockClient)(nil)

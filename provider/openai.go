package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/sashabaranov/go-openai"
	"github.com/translatekit/jsontl"
)

// OpenAIClient implements Client using OpenAI's API for translation and
// local detection for DetectLanguage. Instances are not safe for
// concurrent use; construct one per worker via Factory.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key (uses OPENAI_API_KEY env var if empty)
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Factory returns a ClientFactory that constructs an independent
// OpenAIClient per worker.
func Factory(cfg OpenAIConfig) jsontl.ClientFactory {
	return func() jsontl.Client {
		return NewOpenAIClient(cfg)
	}
}

// Translate translates one text using OpenAI.
func (c *OpenAIClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &jsontl.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &jsontl.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

// DetectLanguage guesses the language of the samples. Detection runs
// locally; no API call is made. The first ten samples are combined for
// better accuracy on short strings.
func (c *OpenAIClient) DetectLanguage(_ context.Context, samples []string) (string, error) {
	return DetectLanguage(samples)
}

// DetectLanguage is the shared local detection used by clients. Returns a
// *jsontl.DetectionError when the samples are empty or the detector is
// not confident.
func DetectLanguage(samples []string) (string, error) {
	if len(samples) > 10 {
		samples = samples[:10]
	}
	combined := strings.Join(samples, " ")
	if strings.TrimSpace(combined) == "" {
		return "", &jsontl.DetectionError{Message: "no text to detect"}
	}

	info := whatlanggo.Detect(combined)
	if !info.IsReliable() {
		return "", &jsontl.DetectionError{
			Message: fmt.Sprintf("low-confidence detection (%.2f)", info.Confidence),
		}
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return "", &jsontl.DetectionError{Message: "detector returned no ISO code"}
	}
	return code, nil
}

func buildSystemPrompt(sourceLang, targetLang string) string {
	sourceName := jsontl.LanguageName(sourceLang)
	targetName := jsontl.LanguageName(targetLang)

	return fmt.Sprintf(`# Role
You are an expert native translator. You translate user-interface strings from %s to %s with the fluency of a highly educated native speaker.

# Task
Translate the provided text into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase to sound completely natural to a native speaker.
- **Markers**: The text may contain markers like __PH_0__. Copy every marker into your output EXACTLY as written, never translate, reorder, drop, or duplicate one.
- **Formatting**: Preserve meaningful whitespace (leading/trailing spaces, multiple spaces, newlines). Use idiomatic punctuation for the target language.

# Format
Return a valid JSON object with a single key "translation" containing the translated string.
Example: { "translation": "translated text" }
Do NOT wrap in Markdown code blocks.`, sourceName, targetName, targetName)
}

func parseResponse(content string) (string, error) {
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translation, ok := objResult["translation"]; ok {
			if s, ok := translation.(string); ok {
				return s, nil
			}
		}

		// Fallback: first string value
		for _, v := range objResult {
			if s, ok := v.(string); ok {
				return s, nil
			}
		}
	}

	return "", &jsontl.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

// isRetryableError classifies transient transport failures. The OpenAI
// SDK does not expose a structured retryability signal, so this matches
// on the message.
func isRetryableError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"rate limit", "timeout", "connection refused", "temporary", "429", "502", "503"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// Verify OpenAIClient implements Client
var _ Client = (*OpenAIClient)(nil)

package jsontl

import (
	"strings"
	"testing"
)

func TestProtect_ConcreteScenario(t *testing.T) {
	codec := NewPlaceholderCodec()

	stripped, tokens := codec.Protect("Hello, {{name}}! You have {0} new messages")

	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Value != "{{name}}" {
		t.Errorf("Expected first token '{{name}}', got %q", tokens[0].Value)
	}
	if tokens[1].Value != "{0}" {
		t.Errorf("Expected second token '{0}', got %q", tokens[1].Value)
	}
	if stripped != "Hello, __PH_0__! You have __PH_1__ new messages" {
		t.Errorf("Unexpected stripped text: %q", stripped)
	}

	// A stubbed translation that preserves marker order must restore both
	// tokens verbatim in their original positions.
	translated := "Hola, __PH_0__! Tienes __PH_1__ mensajes nuevos"
	restored, warning := codec.Restore(translated, tokens)
	if warning != nil {
		t.Errorf("Unexpected warning: %v", warning)
	}
	if restored != "Hola, {{name}}! Tienes {0} mensajes nuevos" {
		t.Errorf("Unexpected restored text: %q", restored)
	}
}

func TestProtect_Grammars(t *testing.T) {
	codec := NewPlaceholderCodec()

	tests := []struct {
		name    string
		text    string
		token   string
		grammar string
	}{
		{"double brace", "Hi {{user}}!", "{{user}}", "double-brace"},
		{"positional brace", "Item {0} of {1}", "{0}", "positional-brace"},
		{"brace name", "Hi {name}!", "{name}", "brace-name"},
		{"percent verb", "Count: %d", "%d", "percent-verb"},
		{"percent string", "Name: %s", "%s", "percent-verb"},
		{"percent named", "Hello %(user)s!", "%(user)s", "percent-named"},
		{"dollar brace", "Hi ${user}!", "${user}", "dollar-brace"},
		{"double bracket", "See [[help page]]", "[[help page]]", "double-bracket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripped, tokens := codec.Protect(tt.text)
			if len(tokens) == 0 {
				t.Fatalf("Expected at least one token for %q", tt.text)
			}
			if tokens[0].Value != tt.token {
				t.Errorf("Expected token %q, got %q", tt.token, tokens[0].Value)
			}
			if tokens[0].Grammar != tt.grammar {
				t.Errorf("Expected grammar %q, got %q", tt.grammar, tokens[0].Grammar)
			}
			if strings.Contains(stripped, tt.token) {
				t.Errorf("Token %q not stripped from %q", tt.token, stripped)
			}
		})
	}
}

func TestProtect_RoundTrip(t *testing.T) {
	codec := NewPlaceholderCodec()

	texts := []string{
		"",
		"No placeholders here",
		"Hello, {{name}}!",
		"{{a}}{{b}}{{c}}",
		"Mix {0} and {{two}} and %s and ${four} and %(five)d and [[six]]",
		"Trailing {count}",
		"{leading} text",
		"Repeated {{x}} then {{x}} again",
		"Nested-ish ${a.b.c} value",
		"Percent alone 100% done",
	}

	for _, text := range texts {
		stripped, tokens := codec.Protect(text)
		restored, warning := codec.Restore(stripped, tokens)
		if warning != nil {
			t.Errorf("Round trip of %q produced warning: %v", text, warning)
		}
		if restored != text {
			t.Errorf("Round trip failed: %q -> %q -> %q", text, stripped, restored)
		}
	}
}

func TestProtect_MarkersLeftToRight(t *testing.T) {
	codec := NewPlaceholderCodec()

	// Extraction order must match left-to-right appearance even when a
	// lower-priority grammar appears first in the text.
	_, tokens := codec.Protect("You have {0} messages, {{name}}")
	if tokens[0].Value != "{0}" || tokens[1].Value != "{{name}}" {
		t.Errorf("Expected left-to-right capture order, got %q, %q", tokens[0].Value, tokens[1].Value)
	}
}

func TestProtect_MarkerNotMatchable(t *testing.T) {
	codec := NewPlaceholderCodec()

	stripped, tokens := codec.Protect("Before {{a}} after")
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}

	// Protecting the stripped text again must not capture the marker.
	again, moreTokens := codec.Protect(stripped)
	if len(moreTokens) != 0 {
		t.Errorf("Marker was matched by a grammar: %v", moreTokens)
	}
	if again != stripped {
		t.Errorf("Second protect changed text: %q -> %q", stripped, again)
	}
}

func TestRestore_DroppedMarker(t *testing.T) {
	codec := NewPlaceholderCodec()

	_, tokens := codec.Protect("{{a}} and {{b}}")

	// The provider dropped the second marker.
	restored, warning := codec.Restore("only __PH_0__ survived", tokens)
	if warning == nil {
		t.Fatal("Expected a mismatch warning")
	}
	if warning.Markers != 1 || warning.Tokens != 2 {
		t.Errorf("Expected 1 marker / 2 tokens, got %d / %d", warning.Markers, warning.Tokens)
	}
	if restored != "only {{a}} survived" {
		t.Errorf("Unexpected best-effort restore: %q", restored)
	}
}

func TestRestore_DuplicatedMarker(t *testing.T) {
	codec := NewPlaceholderCodec()

	_, tokens := codec.Protect("{{a}}")

	// The provider duplicated the marker: the excess stays verbatim.
	restored, warning := codec.Restore("__PH_0__ and __PH_0__", tokens)
	if warning == nil {
		t.Fatal("Expected a mismatch warning")
	}
	if restored != "{{a}} and __PH_0__" {
		t.Errorf("Unexpected best-effort restore: %q", restored)
	}
}

func TestRestore_ReorderedMarkers(t *testing.T) {
	codec := NewPlaceholderCodec()

	_, tokens := codec.Protect("{{first}} then {{second}}")

	// The provider reordered the surrounding words; markers are filled in
	// the order they appear with tokens in capture order.
	restored, warning := codec.Restore("__PH_1__ antes, __PH_0__ después", tokens)
	if warning != nil {
		t.Errorf("Unexpected warning: %v", warning)
	}
	if restored != "{{first}} antes, {{second}} después" {
		t.Errorf("Unexpected restore: %q", restored)
	}
}

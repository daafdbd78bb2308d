package jsontl

import (
	"strings"
	"testing"
)

func TestHashText(t *testing.T) {
	h1 := HashText("Hello")
	h2 := HashText("Hello")
	h3 := HashText("hello")

	if h1 != h2 {
		t.Error("Expected identical hashes for identical text")
	}
	if h1 == h3 {
		t.Error("Expected different hashes for different case")
	}
	if len(h1) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(h1))
	}

	// The exact text is hashed: whitespace matters.
	if HashText("Hello ") == HashText("Hello") {
		t.Error("Expected trailing whitespace to change the hash")
	}
}

func TestKey(t *testing.T) {
	key := Key("en", "es", "Hello")

	if !strings.HasPrefix(key, "en:es:") {
		t.Errorf("Expected 'en:es:' prefix, got %q", key)
	}
	if key == Key("en", "fr", "Hello") {
		t.Error("Expected target language to partition keys")
	}
	if key == Key("es", "es", "Hello") {
		t.Error("Expected source language to partition keys")
	}
	if key != Key("en", "es", "Hello") {
		t.Error("Expected deterministic keys")
	}
}

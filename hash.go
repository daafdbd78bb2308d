package jsontl

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of the exact text.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// Key generates a cache key for the (source language, target language,
// exact source text) triple. The text is hashed so keys stay bounded.
func Key(sourceLang, targetLang, text string) string {
	return sourceLang + ":" + targetLang + ":" + HashText(text)
}

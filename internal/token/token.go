// Package token derives deterministic one-way tokens from PII values.
//
// Raw PII never leaves the ingestion boundary: downstream consumers join
// events by token. Identical input (after normalization) always produces the
// same token, and there is no inverse.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize canonicalizes a PII value before hashing: surrounding whitespace
// is trimmed and the value is lowercased.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// FromString returns the SHA-256 hex token for a PII value, or nil when the
// value is empty after normalization. An empty input yields no token rather
// than the hash of the empty string.
func FromString(value string) *string {
	normalized := Normalize(value)
	if normalized == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(normalized))
	tok := hex.EncodeToString(sum[:])
	return &tok
}

// FromPtr tokenizes an optional PII value. Nil in, nil out.
func FromPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return FromString(*value)
}

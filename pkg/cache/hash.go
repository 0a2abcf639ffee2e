package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DocumentKey returns the cache key for the document at src.
// Surrounding whitespace is ignored.
func DocumentKey(src string) string {
	return "doc:" + Hash([]byte(strings.TrimSpace(src)))
}

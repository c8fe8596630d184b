// Package cache stores normalized classification responses so a run
// never pays for the same message twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for one classification call. Provider,
// model and the trimmed message all participate, so switching either
// model or backend never reuses stale answers.
func Key(provider, model, message string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(message))
	return "nyr:v1:" + hex.EncodeToString(h.Sum(nil))
}

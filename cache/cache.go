// Package cache provides translation caching implementations.
package cache

// Cache is the interface for translation caching.
type Cache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache. Set is idempotent and never
	// blocks a concurrent Get.
	Set(key string, value string) error
}

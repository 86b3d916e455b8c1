package cache

import "time"

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get retrieves a value; the bool is false when the key is missing or expired.
	Get(key string) (interface{}, bool)

	// Set stores a value, replacing any previous one.
	Set(key string, value interface{}, duration time.Duration)

	// Add stores a value only if the key is absent. Returns an error otherwise.
	Add(key string, value interface{}, duration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string)

	// OnEvicted registers a callback run when an item expires or is deleted.
	OnEvicted(fn func(key string, value interface{}))

	// ItemCount includes expired items not yet cleaned up.
	ItemCount() int

	// Flush removes all items
	Flush()
}


package cache

import (
	"fmt"
	"time"

	"storefront-backend/pkg/cache"
)

// LocalStorage is a visitor-scoped key/value area with Web Storage
// semantics, the server-side stand-in for a browser's localStorage.
type LocalStorage struct {
	store     cache.CacheService
	visitorID string
	ttl       time.Duration
}

// NewLocalStorage scopes store to one visitor. Every write refreshes ttl.
func NewLocalStorage(store cache.CacheService, visitorID string, ttl time.Duration) *LocalStorage {
	return &LocalStorage{
		store:     store,
		visitorID: visitorID,
		ttl:       ttl,
	}
}

func (s *LocalStorage) key(k string) string {
	return fmt.Sprintf("local:%s:%s", s.visitorID, k)
}

// GetItem returns the raw value stored under k. Non-string values are
// reported as present but empty so the caller treats them as corrupt.
func (s *LocalStorage) GetItem(k string) (string, bool) {
	v, found := s.store.Get(s.key(k))
	if !found {
		return "", false
	}
	str, _ := v.(string)
	return str, true
}

func (s *LocalStorage) SetItem(k, value string) error {
	s.store.Set(s.key(k), value, s.ttl)
	return nil
}

func (s *LocalStorage) RemoveItem(k string) {
	s.store.Delete(s.key(k))
}

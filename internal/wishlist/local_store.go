// Package wishlist implements the dual-mode wishlist: a local identifier set
// for anonymous visitors, the remote store for signed-in users, and the
// one-time migration between them on sign-in.
package wishlist

import (
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"storefront-backend/internal/domain"
)

// Storage is the Web Storage contract (getItem/setItem/removeItem) of the
// visitor's local tier.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string)
}

// LocalStore persists the anonymous wishlist as a JSON array of product ids
// under domain.LocalWishlistKey. Concurrent writers are not reconciled: the
// last Save wins.
type LocalStore struct {
	storage Storage
	log     zerolog.Logger
}

func NewLocalStore(storage Storage, log zerolog.Logger) *LocalStore {
	return &LocalStore{storage: storage, log: log}
}

// Load returns the stored ids in insertion order, without duplicates or
// empty strings. Missing or malformed content yields an empty list.
func (s *LocalStore) Load() []string {
	raw, found := s.storage.GetItem(domain.LocalWishlistKey)
	if !found || raw == "" {
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Warn().Err(err).Msg("Local wishlist unreadable, treating as empty")
		return []string{}
	}
	return dedupe(ids)
}

// Save overwrites the stored set.
func (s *LocalStore) Save(ids []string) error {
	data, err := json.Marshal(dedupe(ids))
	if err != nil {
		return err
	}
	return s.storage.SetItem(domain.LocalWishlistKey, string(data))
}

// Has reports whether productID is stored.
func (s *LocalStore) Has(productID string) bool {
	for _, id := range s.Load() {
		if id == productID {
			return true
		}
	}
	return false
}

// Add appends productID unless already present.
func (s *LocalStore) Add(productID string) error {
	ids := s.Load()
	for _, id := range ids {
		if id == productID {
			return nil
		}
	}
	return s.Save(append(ids, productID))
}

// Remove drops productID; absent ids are a no-op.
func (s *LocalStore) Remove(productID string) error {
	ids := s.Load()
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	return s.Save(kept)
}

// Clear removes the stored set entirely.
func (s *LocalStore) Clear() {
	s.storage.RemoveItem(domain.LocalWishlistKey)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

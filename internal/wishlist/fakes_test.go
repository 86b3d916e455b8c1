package wishlist

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain"
)

var errBoom = errors.New("connection reset by peer")

var nopLogger = zerolog.New(io.Discard)

// memoryStorage is a Web Storage double backed by go-cache.
type memoryStorage struct {
	c *cache.Cache
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{c: cache.New(cache.NoExpiration, 0)}
}

func (s *memoryStorage) GetItem(key string) (string, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (s *memoryStorage) SetItem(key, value string) error {
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *memoryStorage) RemoveItem(key string) {
	s.c.Delete(key)
}

type rowKey struct {
	user    string
	product string
}

// fakeRemote enforces the (user, product) uniqueness constraint.
type fakeRemote struct {
	mu       sync.Mutex
	rows     map[rowKey]time.Time
	seq      int
	products map[string]domain.Product

	failUpsert map[string]error
	failDelete error
	failList   error
	block      chan struct{} // when set, Upsert waits on it
	entered    chan struct{}

	upserts int
	deletes int
	lists   int
}

func newFakeRemote(products ...domain.Product) *fakeRemote {
	r := &fakeRemote{
		rows:       map[rowKey]time.Time{},
		products:   map[string]domain.Product{},
		failUpsert: map[string]error{},
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRemote) ListForUser(_ context.Context, userID string) ([]domain.RemoteWishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.failList != nil {
		return nil, r.failList
	}

	var out []domain.RemoteWishlistItem
	for k, at := range r.rows {
		if k.user != userID {
			continue
		}
		out = append(out, domain.RemoteWishlistItem{ProductID: k.product, Product: r.products[k.product], AddedAt: at})
	}
	// newest first
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].AddedAt.After(out[j-1].AddedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *fakeRemote) Upsert(_ context.Context, userID, productID string) error {
	if r.block != nil {
		if r.entered != nil {
			r.entered <- struct{}{}
		}
		<-r.block
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if err := r.failUpsert[productID]; err != nil {
		return err
	}
	k := rowKey{userID, productID}
	if _, exists := r.rows[k]; exists {
		return nil
	}
	r.seq++
	r.rows[k] = time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
	return nil
}

func (r *fakeRemote) Delete(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	if r.failDelete != nil {
		return r.failDelete
	}
	delete(r.rows, rowKey{userID, productID})
	return nil
}

func (r *fakeRemote) rowsFor(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for k := range r.rows {
		if k.user == userID {
			ids = append(ids, k.product)
		}
	}
	return ids
}

func (r *fakeRemote) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts + r.deletes + r.lists
}

type fakeCatalog struct {
	products map[string]domain.Product
	err      error
}

func (c *fakeCatalog) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (c *fakeCatalog) GetProductsByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []domain.Product
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func testProduct(id string) domain.Product {
	return domain.Product{ID: id, Title: "Product " + id, Price: decimal.NewFromInt(10), Stock: 3}
}

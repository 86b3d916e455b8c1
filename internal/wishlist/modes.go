package wishlist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"storefront-backend/internal/domain"
)

// mode is the storage strategy selected by the current auth snapshot.
type mode interface {
	has(ctx context.Context, productID string) (bool, error)
	add(ctx context.Context, product domain.Product) error
	remove(ctx context.Context, productID string) error
	items(ctx context.Context) ([]domain.WishlistEntry, error)
}

// --- Anonymous ---

type localMode struct {
	store   *LocalStore
	catalog domain.ProductCatalog
}

func (m *localMode) has(_ context.Context, productID string) (bool, error) {
	return m.store.Has(productID), nil
}

func (m *localMode) add(_ context.Context, product domain.Product) error {
	return m.store.Add(product.ID)
}

func (m *localMode) remove(_ context.Context, productID string) error {
	return m.store.Remove(productID)
}

// items resolves the stored ids against the catalog. Ids the catalog no
// longer knows come back without a snapshot.
func (m *localMode) items(ctx context.Context) ([]domain.WishlistEntry, error) {
	ids := m.store.Load()
	entries := make([]domain.WishlistEntry, 0, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}

	byID := map[string]domain.Product{}
	if m.catalog != nil {
		products, err := m.catalog.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, &domain.RemoteError{Op: "resolve wishlist products", Err: err}
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	for _, id := range ids {
		entry := domain.WishlistEntry{ProductID: id}
		if p, ok := byID[id]; ok {
			entry.Product = &p
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// --- Authenticated ---

// remoteMode mirrors the user's remote rows in memory. The mirror is
// loaded lazily and only mutated after the remote call succeeded.
type remoteMode struct {
	userID   string
	store    domain.RemoteWishlistStore
	inflight *atomic.Int32
	now      func() time.Time

	mu     sync.Mutex
	loaded bool
	rows   []domain.RemoteWishlistItem
}

func newRemoteMode(userID string, store domain.RemoteWishlistStore, inflight *atomic.Int32, now func() time.Time) *remoteMode {
	return &remoteMode{userID: userID, store: store, inflight: inflight, now: now}
}

func (m *remoteMode) track() func() {
	m.inflight.Add(1)
	return func() { m.inflight.Add(-1) }
}

func (m *remoteMode) load(ctx context.Context) error {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}

	done := m.track()
	rows, err := m.store.ListForUser(ctx, m.userID)
	done()
	if err != nil {
		return &domain.RemoteError{Op: "load wishlist", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		m.rows = dedupeRows(rows)
		m.loaded = true
	}
	return nil
}

func (m *remoteMode) indexOf(productID string) int {
	for i := range m.rows {
		if m.rows[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (m *remoteMode) has(ctx context.Context, productID string) (bool, error) {
	if err := m.load(ctx); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(productID) >= 0, nil
}

func (m *remoteMode) add(ctx context.Context, product domain.Product) error {
	present, err := m.has(ctx, product.ID)
	if err != nil || present {
		return err
	}

	done := m.track()
	err = m.store.Upsert(ctx, m.userID, product.ID)
	done()
	if err != nil {
		return &domain.RemoteError{Op: "add to wishlist", ProductID: product.ID, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(product.ID) < 0 {
		row := domain.RemoteWishlistItem{ProductID: product.ID, Product: product, AddedAt: m.now()}
		m.rows = append([]domain.RemoteWishlistItem{row}, m.rows...)
	}
	return nil
}

func (m *remoteMode) remove(ctx context.Context, productID string) error {
	present, err := m.has(ctx, productID)
	if err != nil || !present {
		return err
	}

	done := m.track()
	err = m.store.Delete(ctx, m.userID, productID)
	done()
	if err != nil {
		return &domain.RemoteError{Op: "remove from wishlist", ProductID: productID, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(productID); i >= 0 {
		m.rows = append(m.rows[:i], m.rows[i+1:]...)
	}
	return nil
}

func (m *remoteMode) items(ctx context.Context) ([]domain.WishlistEntry, error) {
	if err := m.load(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]domain.WishlistEntry, 0, len(m.rows))
	for _, row := range m.rows {
		p := row.Product
		entries = append(entries, domain.WishlistEntry{ProductID: row.ProductID, Product: &p, AddedAt: row.AddedAt})
	}
	return entries, nil
}

func dedupeRows(rows []domain.RemoteWishlistItem) []domain.RemoteWishlistItem {
	seen := make(map[string]struct{}, len(rows))
	out := make([]domain.RemoteWishlistItem, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ProductID]; ok {
			continue
		}
		seen[r.ProductID] = struct{}{}
		out = append(out, r)
	}
	return out
}

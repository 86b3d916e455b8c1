package wishlist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"storefront-backend/internal/domain"
)

// Wishlist is the read/write surface over both storage modes. Every
// operation receives the caller's auth snapshot; a change of user triggers
// the mode switch (and, on sign-in, one synchronization) before the
// operation runs.
type Wishlist struct {
	local  *localMode
	remote domain.RemoteWishlistStore
	syncer *Synchronizer
	log    zerolog.Logger
	now    func() time.Time

	// transition is held for the whole mode switch, sync included.
	transition sync.Mutex

	mu     sync.Mutex
	userID string
	active mode

	inflight atomic.Int32
}

func New(local *LocalStore, remote domain.RemoteWishlistStore, catalog domain.ProductCatalog, syncer *Synchronizer, log zerolog.Logger) *Wishlist {
	lm := &localMode{store: local, catalog: catalog}
	return &Wishlist{
		local:  lm,
		remote: remote,
		syncer: syncer,
		log:    log,
		now:    time.Now,
		active: lm,
	}
}

// observe switches modes when auth.UserID differs from the last seen one.
// Transitions are serialized, and a new remote mode is installed only after
// the synchronizer returned, so no reader can list the remote store while
// the local ids are still being upserted. A sync failure is returned; the
// wishlist is in authenticated mode afterwards and the next transition
// retries.
func (w *Wishlist) observe(ctx context.Context, auth domain.AuthSnapshot) (mode, error) {
	w.transition.Lock()
	defer w.transition.Unlock()

	w.mu.Lock()
	if auth.UserID == w.userID {
		m := w.active
		w.mu.Unlock()
		return m, nil
	}
	previous := w.userID
	w.mu.Unlock()

	if !auth.Authenticated() {
		w.install("", w.local)
		w.log.Info().Str("user_id", previous).Msg("Signed out, wishlist back to local storage")
		return w.local, nil
	}

	w.inflight.Add(1)
	_, err := w.syncer.Run(ctx, auth.UserID)
	w.inflight.Add(-1)

	rm := newRemoteMode(auth.UserID, w.remote, &w.inflight, w.now)
	w.install(auth.UserID, rm)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (w *Wishlist) install(userID string, m mode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.userID = userID
	w.active = m
}

// Observe applies an auth transition without performing an operation.
func (w *Wishlist) Observe(ctx context.Context, auth domain.AuthSnapshot) error {
	_, err := w.observe(ctx, auth)
	return err
}

// IsInWishlist tests membership in the active mode. Anonymous lookups never
// touch the network.
func (w *Wishlist) IsInWishlist(ctx context.Context, auth domain.AuthSnapshot, productID string) (bool, error) {
	m, err := w.observe(ctx, auth)
	if err != nil {
		return false, err
	}
	return m.has(ctx, productID)
}

// Add is idempotent: an already present product is a no-op.
func (w *Wishlist) Add(ctx context.Context, auth domain.AuthSnapshot, product domain.Product) error {
	if product.ID == "" {
		return domain.ErrInvalidProduct
	}
	m, err := w.observe(ctx, auth)
	if err != nil {
		return err
	}
	return m.add(ctx, product)
}

// Remove is idempotent: an absent product is a no-op.
func (w *Wishlist) Remove(ctx context.Context, auth domain.AuthSnapshot, productID string) error {
	m, err := w.observe(ctx, auth)
	if err != nil {
		return err
	}
	return m.remove(ctx, productID)
}

func (w *Wishlist) Items(ctx context.Context, auth domain.AuthSnapshot) ([]domain.WishlistEntry, error) {
	m, err := w.observe(ctx, auth)
	if err != nil {
		return nil, err
	}
	return m.items(ctx)
}

// Loading reports whether a remote call or a synchronization is in flight.
func (w *Wishlist) Loading() bool {
	return w.inflight.Load() > 0
}

// Authenticated reports the mode selected by the last observed snapshot.
func (w *Wishlist) Authenticated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.userID != ""
}

func (w *Wishlist) SyncState() SyncState {
	return w.syncer.State()
}

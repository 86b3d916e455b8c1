package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/domain"
	infracache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/wishlist"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

// Session is the per-visitor state engine: one cart and one wishlist.
type Session struct {
	VisitorID string
	Cart      *cart.Cart
	Wishlist  *wishlist.Wishlist
}

type SessionOptions struct {
	SessionTTL      time.Duration
	LocalStorageTTL time.Duration
	MaxCartQuantity int
	SyncConcurrency int
}

// SessionUsecase creates sessions lazily and keeps them alive while the
// visitor is active. Local wishlist data lives in a separate store with
// its own, longer TTL, like a browser's localStorage outliving a tab.
type SessionUsecase struct {
	sessions  cache.CacheService
	localData cache.CacheService
	remote    domain.RemoteWishlistStore
	catalog   domain.ProductCatalog
	opts      SessionOptions
}

func NewSessionUsecase(sessions, localData cache.CacheService, remote domain.RemoteWishlistStore, catalog domain.ProductCatalog, opts SessionOptions) *SessionUsecase {
	return &SessionUsecase{
		sessions:  sessions,
		localData: localData,
		remote:    remote,
		catalog:   catalog,
		opts:      opts,
	}
}

func sessionKey(visitorID string) string {
	return fmt.Sprintf("session:%s", visitorID)
}

// Get returns the visitor's session, creating it on first use.
func (u *SessionUsecase) Get(ctx context.Context, visitorID string) (*Session, error) {
	if visitorID == "" {
		return nil, fmt.Errorf("%w: visitor id is required", domain.ErrInvalidArgument)
	}

	key := sessionKey(visitorID)
	if val, found := u.sessions.Get(key); found {
		s := val.(*Session)
		// Sliding expiration
		u.sessions.Set(key, s, u.opts.SessionTTL)
		return s, nil
	}

	s := u.newSession(visitorID)
	if err := u.sessions.Add(key, s, u.opts.SessionTTL); err != nil {
		// Lost a race with a concurrent request from the same visitor.
		if val, found := u.sessions.Get(key); found {
			return val.(*Session), nil
		}
		return nil, fmt.Errorf("failed to register session: %w", err)
	}

	logger.WithContext(ctx).Debug().Str("visitor_id", visitorID).Msg("Session created")
	return s, nil
}

func (u *SessionUsecase) newSession(visitorID string) *Session {
	// Sessions outlive the request that created them, so no request fields.
	log := logger.WithVisitorID(*logger.Get(), visitorID)

	storage := infracache.NewLocalStorage(u.localData, visitorID, u.opts.LocalStorageTTL)
	local := wishlist.NewLocalStore(storage, log)
	syncer := wishlist.NewSynchronizer(local, u.remote, u.opts.SyncConcurrency, log)

	return &Session{
		VisitorID: visitorID,
		Cart:      cart.New(u.opts.MaxCartQuantity),
		Wishlist:  wishlist.New(local, u.remote, u.catalog, syncer, log),
	}
}

// Count is the number of live sessions (expired ones included until cleanup).
func (u *SessionUsecase) Count() int {
	return u.sessions.ItemCount()
}

package wishlist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"storefront-backend/internal/domain"
)

type SyncState int32

const (
	Idle SyncState = iota
	Syncing
)

func (s SyncState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Syncing:
		return "syncing"
	default:
		return "unknown"
	}
}

// SyncResult describes one synchronization attempt.
type SyncResult struct {
	Skipped bool     // another pass was already running
	Synced  []string // ids upserted in this pass
}

// Synchronizer migrates the local wishlist into the remote store when a
// visitor signs in. A trigger while Syncing is ignored.
type Synchronizer struct {
	local       *LocalStore
	remote      domain.RemoteWishlistStore
	concurrency int
	state       atomic.Int32
	log         zerolog.Logger
}

// NewSynchronizer bounds concurrent upserts by concurrency (minimum 1).
func NewSynchronizer(local *LocalStore, remote domain.RemoteWishlistStore, concurrency int, log zerolog.Logger) *Synchronizer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Synchronizer{
		local:       local,
		remote:      remote,
		concurrency: concurrency,
		log:         log,
	}
}

func (s *Synchronizer) State() SyncState {
	return SyncState(s.state.Load())
}

// Run upserts every local id for userID and clears the local store once all
// of them succeeded. On any failure the local store is kept and a
// *domain.SyncError is returned; rows already written stay, since a rerun is
// idempotent.
func (s *Synchronizer) Run(ctx context.Context, userID string) (SyncResult, error) {
	if !s.state.CompareAndSwap(int32(Idle), int32(Syncing)) {
		s.log.Debug().Str("user_id", userID).Msg("Wishlist sync already in progress, ignoring trigger")
		return SyncResult{Skipped: true}, nil
	}
	defer s.state.Store(int32(Idle))

	ids := s.local.Load()
	if len(ids) == 0 {
		return SyncResult{Synced: []string{}}, nil
	}

	s.log.Info().Str("user_id", userID).Int("items", len(ids)).Msg("Syncing local wishlist")

	var (
		mu       sync.Mutex
		failed   []string
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.remote.Upsert(gctx, userID, id); err != nil {
				mu.Lock()
				failed = append(failed, id)
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error().Err(firstErr).Str("user_id", userID).Strs("failed", failed).Msg("Wishlist sync failed, local wishlist kept")
		return SyncResult{}, &domain.SyncError{UserID: userID, Failed: failed, Err: firstErr}
	}

	s.local.Clear()
	s.log.Info().Str("user_id", userID).Int("items", len(ids)).Msg("Wishlist sync complete")
	return SyncResult{Synced: ids}, nil
}

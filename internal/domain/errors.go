package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks synchronous input rejections. State is unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidArgument)
	ErrInvalidDiscount = fmt.Errorf("%w: discount percentage must be between 0 and 100", ErrInvalidArgument)
	ErrInvalidPrice    = fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	ErrInvalidProduct  = fmt.Errorf("%w: product id is required", ErrInvalidArgument)

	ErrProductNotFound = errors.New("product not found")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrUnauthenticated = errors.New("user not authenticated")

	// ErrRemote and ErrSync classify RemoteError and SyncError for errors.Is.
	ErrRemote = errors.New("remote store failure")
	ErrSync   = errors.New("wishlist synchronization failed")
)

// RemoteError is a recoverable failure of a remote store call. The
// operation that produced it had no effect on in-memory state.
type RemoteError struct {
	Op        string
	ProductID string
	Err       error
}

func (e *RemoteError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ProductID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Err}
}

// SyncError reports an abandoned synchronization pass. The local wishlist
// is left intact so the next sign-in retries the same identifiers.
type SyncError struct {
	UserID string
	Failed []string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("wishlist sync for user %s failed (%d item(s) not saved): %v", e.UserID, len(e.Failed), e.Err)
}

func (e *SyncError) Unwrap() []error {
	return []error{ErrSync, e.Err}
}

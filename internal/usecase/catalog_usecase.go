package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
)

// CatalogUsecase is a read-through cache in front of the remote catalog.
// It satisfies domain.ProductCatalog so the wishlist can resolve ids
// through it.
type CatalogUsecase struct {
	repo  domain.ProductCatalog
	cache cache.CacheService
	ttl   time.Duration
}

func NewCatalogUsecase(repo domain.ProductCatalog, cache cache.CacheService, ttl time.Duration) *CatalogUsecase {
	return &CatalogUsecase{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:id:%s", id)
}

func (u *CatalogUsecase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidProduct
	}

	key := productKey(id)
	if val, found := u.cache.Get(key); found {
		p := val.(domain.Product)
		return &p, nil
	}

	product, err := u.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.cache.Set(key, *product, u.ttl)
	return product, nil
}

// GetProductsByIDs serves cached products and fetches the rest in one call.
func (u *CatalogUsecase) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))
	var missing []string

	for _, id := range ids {
		if val, found := u.cache.Get(productKey(id)); found {
			products = append(products, val.(domain.Product))
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return products, nil
	}

	fetched, err := u.repo.GetProductsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range fetched {
		u.cache.Set(productKey(p.ID), p, u.ttl)
		products = append(products, p)
	}
	return products, nil
}

// Invalidate drops a cached product, e.g. after an admin price change.
func (u *CatalogUsecase) Invalidate(id string) {
	u.cache.Delete(productKey(id))
}

// resolveProduct looks a product up for a cart or wishlist write. Catalog
// outages come back as *domain.RemoteError; not-found and bad ids pass
// through unchanged.
func resolveProduct(ctx context.Context, catalog domain.ProductCatalog, id string) (*domain.Product, error) {
	product, err := catalog.GetProductByID(ctx, id)
	if err == nil {
		return product, nil
	}
	if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
		return nil, err
	}
	return nil, &domain.RemoteError{Op: "resolve product", ProductID: id, Err: err}
}

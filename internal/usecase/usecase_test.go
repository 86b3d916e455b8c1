package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domain"
	infracache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"
)

var errDown = errors.New("database is down")

type stubCatalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
	byID     int
	byIDs    int
	err      error
}

func newStubCatalog(products ...domain.Product) *stubCatalog {
	c := &stubCatalog{products: map[string]domain.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID++
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (c *stubCatalog) GetProductsByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byIDs++
	var out []domain.Product
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubRemote struct {
	mu   sync.Mutex
	rows map[string][]string
}

func (r *stubRemote) ListForUser(_ context.Context, userID string) ([]domain.RemoteWishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RemoteWishlistItem
	for _, id := range r.rows[userID] {
		out = append(out, domain.RemoteWishlistItem{ProductID: id, Product: domain.Product{ID: id}})
	}
	return out, nil
}

func (r *stubRemote) Upsert(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.rows[userID] {
		if id == productID {
			return nil
		}
	}
	r.rows[userID] = append(r.rows[userID], productID)
	return nil
}

func (r *stubRemote) Delete(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[userID][:0]
	for _, id := range r.rows[userID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	r.rows[userID] = kept
	return nil
}

type stubOrders struct {
	created []*domain.Order
	err     error
}

func (o *stubOrders) CreateOrder(_ context.Context, order *domain.Order) error {
	if o.err != nil {
		return o.err
	}
	o.created = append(o.created, order)
	return nil
}

func (o *stubOrders) GetByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, ord := range o.created {
		if ord.UserID == userID {
			out = append(out, *ord)
		}
	}
	return out, nil
}

type stubTx struct {
	calls int
	// during runs inside the transaction, after fn.
	during func(ctx context.Context)
}

func (t *stubTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	if t.during != nil {
		t.during(ctx)
	}
	return nil
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func catalogProduct(id, price string) domain.Product {
	return domain.Product{ID: id, Title: "Item " + id, Price: money(price), Stock: 5}
}

type harness struct {
	sessions *SessionUsecase
	catalog  *stubCatalog
	remote   *stubRemote
	orders   *stubOrders
	tx       *stubTx
	cart     *CartUsecase
	wishlist *WishlistUsecase
	order    *OrderUsecase
}

func newHarness(products ...domain.Product) *harness {
	h := &harness{
		catalog: newStubCatalog(products...),
		remote:  &stubRemote{rows: map[string][]string{}},
		orders:  &stubOrders{},
		tx:      &stubTx{},
	}
	cached := NewCatalogUsecase(h.catalog, infracache.NewMemoryCache(time.Minute, 0), time.Minute)
	h.sessions = NewSessionUsecase(
		infracache.NewMemoryCache(time.Hour, 0),
		infracache.NewMemoryCache(time.Hour, 0),
		h.remote,
		cached,
		SessionOptions{SessionTTL: time.Hour, LocalStorageTTL: time.Hour, MaxCartQuantity: 10, SyncConcurrency: 2},
	)
	h.cart = NewCartUsecase(h.sessions, cached, pricing.DefaultRules())
	h.wishlist = NewWishlistUsecase(h.sessions, cached)
	h.order = NewOrderUsecase(h.sessions, h.orders, h.tx, pricing.DefaultRules())
	return h
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName: "Ada Lovelace", Address: "1 Analytical St", City: "London",
		State: "LDN", ZipCode: "N1", Country: "UK", Phone: "+44 20 0000",
	}
}

func Test_SessionUsecase_Get_ReusesSessionPerVisitor(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s1, err := h.sessions.Get(ctx, "v1")
	require.NoError(t, err)
	s2, err := h.sessions.Get(ctx, "v1")
	require.NoError(t, err)
	s3, err := h.sessions.Get(ctx, "v2")
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.NotSame(t, s1, s3)
	assert.Equal(t, 2, h.sessions.Count())

	_, err = h.sessions.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func Test_SessionUsecase_LocalWishlistOutlivesSession(t *testing.T) {
	h := newHarness(catalogProduct("p", "10"))
	ctx := context.Background()
	require.NoError(t, h.wishlist.AddToWishlist(ctx, "v1", domain.Anonymous, "p"))

	h.sessions.sessions.Flush()

	in, err := h.wishlist.IsInWishlist(ctx, "v1", domain.Anonymous, "p")
	require.NoError(t, err)
	assert.True(t, in)
}

func Test_CatalogUsecase_CachesProducts(t *testing.T) {
	h := newHarness(catalogProduct("a", "1"), catalogProduct("b", "2"))
	ctx := context.Background()
	cached := NewCatalogUsecase(h.catalog, infracache.NewMemoryCache(time.Minute, 0), time.Minute)

	_, err := cached.GetProductByID(ctx, "a")
	require.NoError(t, err)
	_, err = cached.GetProductByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, h.catalog.byID)

	products, err := cached.GetProductsByIDs(ctx, []string{"a", "b", "zzz"})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, h.catalog.byIDs)

	_, err = cached.GetProductsByIDs(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.catalog.byIDs)

	cached.Invalidate("a")
	_, err = cached.GetProductByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, h.catalog.byID)

	_, err = cached.GetProductByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func Test_CartUsecase_Flow(t *testing.T) {
	x := catalogProduct("x", "100")
	x.DiscountPercentage = func() *decimal.Decimal { d := money("10"); return &d }()
	h := newHarness(x)
	ctx := context.Background()

	_, err := h.cart.AddToCart(ctx, "v1", "x")
	require.NoError(t, err)
	state, err := h.cart.AddToCart(ctx, "v1", "x")
	require.NoError(t, err)
	assert.Equal(t, 2, state.ItemCount)
	assert.Equal(t, "180", state.Total.String())

	summary, err := h.cart.GetSummary(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, summary.Shipping.IsZero())
	assert.Equal(t, "14.4", summary.Tax.String())

	state, err = h.cart.UpdateCartItemQuantity(ctx, "v1", "x", 3)
	require.NoError(t, err)
	assert.Equal(t, "270", state.Total.String())

	_, err = h.cart.UpdateCartItemQuantity(ctx, "v1", "x", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	state, err = h.cart.RemoveFromCart(ctx, "v1", "x")
	require.NoError(t, err)
	assert.Equal(t, 0, state.ItemCount)

	_, err = h.cart.AddToCart(ctx, "v1", "unknown")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = h.cart.AddToCart(ctx, "v1", "x")
	require.NoError(t, err)
	state, err = h.cart.ClearCart(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, state.Items)
}

func Test_CartUsecase_CartsAreIsolatedPerVisitor(t *testing.T) {
	h := newHarness(catalogProduct("a", "1"))
	ctx := context.Background()

	_, err := h.cart.AddToCart(ctx, "v1", "a")
	require.NoError(t, err)

	other, err := h.cart.GetMyCart(ctx, "v2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func Test_WishlistUsecase_AnonymousThenSignIn(t *testing.T) {
	h := newHarness(catalogProduct("a", "1"), catalogProduct("b", "2"))
	ctx := context.Background()
	alice := domain.AuthSnapshot{UserID: "alice"}

	require.NoError(t, h.wishlist.AddToWishlist(ctx, "v1", domain.Anonymous, "a"))
	require.NoError(t, h.wishlist.AddToWishlist(ctx, "v1", domain.Anonymous, "b"))

	view, err := h.wishlist.GetMyWishlist(ctx, "v1", domain.Anonymous)
	require.NoError(t, err)
	assert.False(t, view.Authenticated)
	assert.Len(t, view.Items, 2)
	assert.Empty(t, h.remote.rows["alice"])

	view, err = h.wishlist.GetMyWishlist(ctx, "v1", alice)
	require.NoError(t, err)
	assert.True(t, view.Authenticated)
	assert.False(t, view.Loading)
	assert.ElementsMatch(t, []string{"a", "b"}, h.remote.rows["alice"])

	require.NoError(t, h.wishlist.RemoveFromWishlist(ctx, "v1", alice, "a"))
	in, err := h.wishlist.IsInWishlist(ctx, "v1", alice, "a")
	require.NoError(t, err)
	assert.False(t, in)
	assert.False(t, h.wishlist.Loading(ctx, "v1"))

	err = h.wishlist.AddToWishlist(ctx, "v1", alice, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func Test_OrderUsecase_Checkout(t *testing.T) {
	h := newHarness(catalogProduct("a", "20"), catalogProduct("b", "5.50"))
	ctx := context.Background()
	alice := domain.AuthSnapshot{UserID: "alice"}
	_, err := h.cart.AddToCart(ctx, "v1", "a")
	require.NoError(t, err)
	_, err = h.cart.AddToCart(ctx, "v1", "b")
	require.NoError(t, err)

	order, err := h.order.Checkout(ctx, "v1", alice, validAddress())

	require.NoError(t, err)
	assert.Equal(t, "alice", order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "25.5", order.Subtotal.String())
	assert.Equal(t, "5.99", order.ShippingFee.String())
	assert.Equal(t, "2.04", order.Tax.String())
	assert.Equal(t, "33.53", order.Total.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, 1, h.tx.calls)
	assert.Len(t, h.orders.created, 1)

	state, err := h.cart.GetMyCart(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, state.Items)

	orders, err := h.order.GetMyOrders(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func Test_OrderUsecase_Checkout_Rejections(t *testing.T) {
	h := newHarness(catalogProduct("a", "20"))
	ctx := context.Background()
	alice := domain.AuthSnapshot{UserID: "alice"}

	_, err := h.order.Checkout(ctx, "v1", domain.Anonymous, validAddress())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = h.order.Checkout(ctx, "v1", alice, validAddress())
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	_, err = h.cart.AddToCart(ctx, "v1", "a")
	require.NoError(t, err)

	addr := validAddress()
	addr.City = ""
	_, err = h.order.Checkout(ctx, "v1", alice, addr)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "city")

	h.orders.err = errDown
	_, err = h.order.Checkout(ctx, "v1", alice, validAddress())
	assert.ErrorIs(t, err, domain.ErrRemote)
	state, err := h.cart.GetMyCart(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, state.Items, 1, "a failed checkout keeps the cart")

	_, err = h.order.GetMyOrders(ctx, domain.Anonymous)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func Test_SessionUsecase_SessionLoggerDoesNotKeepFirstRequest(t *testing.T) {
	h := newHarness(catalogProduct("a", "1"))
	var buf bytes.Buffer
	first := zerolog.New(&buf).With().Str("request_id", "first").Logger()
	ctx := logger.NewContext(context.Background(), &first)

	_, err := h.sessions.Get(ctx, "v1")
	require.NoError(t, err)

	h.sessions.localData.Set("local:v1:"+domain.LocalWishlistKey, "{bad", time.Hour)
	in, err := h.wishlist.IsInWishlist(context.Background(), "v1", domain.Anonymous, "a")
	require.NoError(t, err)
	assert.False(t, in)

	assert.Contains(t, buf.String(), "Session created")
	assert.NotContains(t, buf.String(), "Local wishlist unreadable")
}

func Test_CartUsecase_CatalogDownIsRemoteError(t *testing.T) {
	h := newHarness(catalogProduct("a", "1"))
	h.catalog.err = errDown
	ctx := context.Background()

	_, err := h.cart.AddToCart(ctx, "v1", "a")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.ErrorIs(t, err, errDown)
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "a", remote.ProductID)

	state, err := h.cart.GetMyCart(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, state.Items)

	_, err = h.cart.AddToCart(ctx, "v1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.NotErrorIs(t, err, domain.ErrRemote)
}

func Test_WishlistUsecase_CatalogDown(t *testing.T) {
	h := newHarness(catalogProduct("a", "1"))
	h.catalog.err = errDown
	ctx := context.Background()

	t.Run("signed out keeps the bare id", func(t *testing.T) {
		require.NoError(t, h.wishlist.AddToWishlist(ctx, "v1", domain.Anonymous, "a"))

		in, err := h.wishlist.IsInWishlist(ctx, "v1", domain.Anonymous, "a")
		require.NoError(t, err)
		assert.True(t, in)
	})

	t.Run("signed in reports the outage", func(t *testing.T) {
		err := h.wishlist.AddToWishlist(ctx, "v2", domain.AuthSnapshot{UserID: "bob"}, "a")

		assert.ErrorIs(t, err, domain.ErrRemote)
		assert.Empty(t, h.remote.rows["bob"])
	})
}

func Test_OrderUsecase_Checkout_KeepsItemsAddedDuringPersist(t *testing.T) {
	h := newHarness(catalogProduct("a", "20"), catalogProduct("b", "3"))
	ctx := context.Background()
	alice := domain.AuthSnapshot{UserID: "alice"}
	_, err := h.cart.AddToCart(ctx, "v1", "a")
	require.NoError(t, err)

	h.tx.during = func(ctx context.Context) {
		_, err := h.cart.AddToCart(ctx, "v1", "b")
		require.NoError(t, err)
	}

	order, err := h.order.Checkout(ctx, "v1", alice, validAddress())

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "a", order.Items[0].ProductID)

	state, err := h.cart.GetMyCart(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "b", state.Items[0].Product.ID)
	assert.Equal(t, 1, state.Items[0].Quantity)
}

func Test_OrderUsecase_Checkout_ChargesWholeCents(t *testing.T) {
	half := money("50")
	p := catalogProduct("p", "33.33")
	p.DiscountPercentage = &half
	h := newHarness(p)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := h.cart.AddToCart(ctx, "v1", "p")
		require.NoError(t, err)
	}

	order, err := h.order.Checkout(ctx, "v1", domain.AuthSnapshot{UserID: "alice"}, validAddress())

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "16.67", order.Items[0].Price.StringFixed(2))
	assert.True(t, order.Items[0].Price.Equal(order.Items[0].Price.Round(2)))

	lines := decimal.Zero
	for _, item := range order.Items {
		lines = lines.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, lines.Equal(order.Subtotal), "items %s, subtotal %s", lines, order.Subtotal)
	assert.Equal(t, "33.34", order.Subtotal.StringFixed(2))
	assert.Equal(t, "2.67", order.Tax.StringFixed(2))
	assert.Equal(t, "42.00", order.Total.StringFixed(2))
}

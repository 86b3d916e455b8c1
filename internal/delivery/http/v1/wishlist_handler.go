package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type WishlistHandler struct {
	usecase *usecase.WishlistUsecase
}

func NewWishlistHandler(usecase *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{usecase: usecase}
}

// Wishlist routes run behind OptionalAuth: signed-out visitors get the
// local wishlist, signed-in ones the persisted one.
func (h *WishlistHandler) GetMyWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.usecase.GetMyWishlist(ctx, middleware.VisitorID(ctx), middleware.Auth(ctx))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *WishlistHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID := middleware.VisitorID(ctx)

	in, err := h.usecase.IsInWishlist(ctx, visitorID, middleware.Auth(ctx), r.PathValue("productId"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{
		"inWishlist": in,
		"loading":    h.usecase.Loading(ctx, visitorID),
	})
}

type WishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req WishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "productId is required")
		return
	}

	if err := h.usecase.AddToWishlist(ctx, middleware.VisitorID(ctx), middleware.Auth(ctx), req.ProductID); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	h.GetMyWishlist(w, r)
}

func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.usecase.RemoveFromWishlist(ctx, middleware.VisitorID(ctx), middleware.Auth(ctx), r.PathValue("productId")); err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	h.GetMyWishlist(w, r)
}

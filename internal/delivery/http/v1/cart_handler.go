package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: uc}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.cartUC.GetMyCart(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

type addToCartReq struct {
	ProductID string `json:"productId"`
}

// AddToCart adds one unit of the product.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "productId is required")
		return
	}

	state, err := h.cartUC.AddToCart(r.Context(), middleware.VisitorID(r.Context()), req.ProductID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

type updateCartReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	state, err := h.cartUC.UpdateCartItemQuantity(r.Context(), middleware.VisitorID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.cartUC.RemoveFromCart(r.Context(), middleware.VisitorID(r.Context()), r.PathValue("productId"))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.cartUC.ClearCart(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, state)
}

func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cartUC.GetSummary(r.Context(), middleware.VisitorID(r.Context()))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: uc}
}

type checkoutReq struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// Checkout places an order for the visitor's cart. Requires AuthMiddleware.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := h.orderUC.Checkout(ctx, middleware.VisitorID(ctx), middleware.Auth(ctx), req.ShippingAddress)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUC.GetMyOrders(r.Context(), middleware.Auth(r.Context()))
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

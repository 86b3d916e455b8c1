package v1

import (
	"net/http"
	"strings"

	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

func (h *CatalogHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("productId")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product ID required")
		return
	}

	product, err := h.catalogUC.GetProductByID(r.Context(), id)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, product)
}

// GetProductsByIDs serves ?ids=a,b,c; unknown ids are left out.
func (h *CatalogHandler) GetProductsByIDs(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "ids query parameter required")
		return
	}

	products, err := h.catalogUC.GetProductsByIDs(r.Context(), ids)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, products)
}

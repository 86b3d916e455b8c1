package v1

import (
	"net/http"

	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

// InvalidateProduct drops the cached snapshot after a catalog edit so new
// cart additions pick up the current price.
func (h *AdminCatalogHandler) InvalidateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("productId")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "Product ID required")
		return
	}

	h.catalogUC.Invalidate(id)
	logger.WithContext(r.Context()).Info().Str("product_id", id).Msg("Product cache invalidated")

	w.WriteHeader(http.StatusNoContent)
}

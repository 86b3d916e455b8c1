package v1

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/pkg/utils"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	sessions interface{ Count() int }
}

func NewHealthHandler(db Pinger, sessions interface{ Count() int }) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, code, map[string]any{
		"status":   status,
		"sessions": h.sessions.Count(),
	})
}

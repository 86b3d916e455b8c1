package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

const (
	VisitorCookie = "visitorId"
	// VisitorHeader echoes the id so the request logger can see it.
	VisitorHeader = "X-Visitor-ID"
)

// NewVisitorMiddleware assigns every browser a stable visitor id cookie.
// The id keys the visitor's cart and wishlist session.
func NewVisitorMiddleware(maxAge time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := ""
			if cookie, err := r.Cookie(VisitorCookie); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil {
					visitorID = id.String()
				}
			}

			if visitorID == "" {
				visitorID = uuid.NewString()
			}
			// Refresh on every request so the cookie slides with the session
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    visitorID,
				Path:     "/",
				MaxAge:   int(maxAge.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(VisitorHeader, visitorID)

			reqLogger := logger.WithVisitorID(*logger.WithContext(r.Context()), visitorID)
			ctx := logger.NewContext(r.Context(), &reqLogger)
			ctx = context.WithValue(ctx, domain.VisitorContextKey, visitorID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VisitorID returns the id set by the visitor middleware.
func VisitorID(ctx context.Context) string {
	id, _ := ctx.Value(domain.VisitorContextKey).(string)
	return id
}

package middleware

import (
	"context"
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

func withUser(ctx context.Context, claims *utils.Claims) context.Context {
	user := &domain.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
	ctx = context.WithValue(ctx, domain.UserContextKey, user)
	l := logger.WithUserID(*logger.WithContext(ctx), claims.UserID)
	ctx = logger.NewContext(ctx, &l)
	return context.WithValue(ctx, domain.AuthContextKey, domain.SnapshotFor(user))
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if errors.Is(err, utils.ErrNoToken) {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		// Token claims are the partial user; no DB hit per request.
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

// OptionalAuth resolves the auth snapshot without rejecting anyone. An
// invalid or expired token counts as signed out.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			if !errors.Is(err, utils.ErrNoToken) {
				logger.WithContext(r.Context()).Debug().Err(err).Msg("Ignoring invalid token")
			}
			ctx := context.WithValue(r.Context(), domain.AuthContextKey, domain.Anonymous)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

// Auth returns the snapshot set by AuthMiddleware or OptionalAuth.
func Auth(ctx context.Context) domain.AuthSnapshot {
	if snap, ok := ctx.Value(domain.AuthContextKey).(domain.AuthSnapshot); ok {
		return snap
	}
	return domain.Anonymous
}

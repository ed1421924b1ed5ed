// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"speakerhub/internal/contextutils"
	"speakerhub/internal/services"

	"go.uber.org/zap"
)

// Auth resolves the caller's identity from the session cookie or a Bearer
// token and stores the user ID on the context. Resolution failures leave the
// request anonymous; RequireAuth decides whether that matters.
func Auth(authService services.AuthService, sessionName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cookie, err := r.Cookie(sessionName); err == nil && cookie.Value != "" {
				if user, err := authService.GetSessionUser(ctx, cookie.Value); err == nil {
					ctx = contextutils.WithUserID(ctx, user.ID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token := strings.TrimPrefix(auth, "Bearer ")
				if userID, err := authService.ValidateToken(ctx, token); err == nil {
					ctx = contextutils.WithUserID(ctx, userID)
				} else {
					logger.Debug("Rejected bearer token", zap.Error(err))
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contextutils.GetUserID(r.Context()) <= 0 {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":{"type":"UNAUTHORIZED","message":"authentication required"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

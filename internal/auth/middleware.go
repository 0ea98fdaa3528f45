package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jvilloslada/taskdeck-be/internal/models"
)

// UserResolver maps a user id to its identity. A missing user is reported as
// a nil user, not an error; errors are reserved for storage failures.
type UserResolver interface {
	ResolveUser(ctx context.Context, id string) (*models.User, error)
}

type contextKey string

const userContextKey = contextKey("currentUser")

// CurrentUser returns the identity resolved for this request, or nil.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithUser attaches an identity to a context. Exposed for tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Authenticator resolves the request's credentials into a user identity and
// stores it in the context. It never rejects a request: a missing token, an
// invalid token, or an unknown user all resolve to a nil identity, which
// RequireUser turns into a 401 on protected routes.
func Authenticator(tm *TokenManager, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tm.Parse(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.ResolveUser(r.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to resolve user identity")
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects requests that carry no resolved identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "You must be logged in to access this resource"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken pulls the session token from the Authorization header or,
// failing that, the token cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/pawmart/pawmart/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware provides HTTP middleware for authentication.
type Middleware struct {
	sessions *scs.SessionManager
	users    *store.UserStore
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(sm *scs.SessionManager, us *store.UserStore) *Middleware {
	return &Middleware{sessions: sm, users: us}
}

// RequireAuth rejects requests without a valid session with a JSON 401 before
// any record is fetched. On success it sets the *store.User on the request
// context. A 401 here is "no session at all"; 403 from an ownership check
// means an authenticated caller that is not the owner.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
		if userID == "" {
			unauthorized(w)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// Session references a deleted user; destroy it.
			_ = m.sessions.Destroy(r.Context())
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalUser sets the *store.User on the context when a valid session
// exists, and passes the request through unchanged otherwise.
func (m *Middleware) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
		if userID != "" {
			if user, err := m.users.GetByID(r.Context(), userID); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "authentication required",
		"code":  "AUTH_REQUIRED",
	})
}

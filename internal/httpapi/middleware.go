package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"
)

type contextKey string

const userIDKey contextKey = "userID"

// Identity headers set by the authenticating reverse proxy. The proxy has
// already verified the token; this layer only trusts its verdict.
const (
	headerUserID      = "X-User-Id"
	headerUserEmail   = "X-User-Email"
	headerDisplayName = "X-User-Name"
)

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// withIdentity resolves the verified user from the identity headers,
// provisioning the user row on first sight, and stores the id in the
// request context.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerUserID)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		if _, err := s.users.EnsureIdentity(r.Context(), id,
			r.Header.Get(headerUserEmail), r.Header.Get(headerDisplayName)); err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[info] %s %s dur=%s", r.Method, r.URL.Path, time.Since(start))
	})
}

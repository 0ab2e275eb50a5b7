package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionCookie names the cookie carrying the interview session ID.
const sessionCookie = "mm_session"

// sessionHeader lets non-browser clients pin a session without cookies.
const sessionHeader = "X-Session-ID"

type sessionKey struct{}

// sessionMiddleware resolves the caller's session identity: the session
// cookie first, then the X-Session-ID header, else a freshly minted UUID.
// Minted IDs are set back as a cookie so the browser keeps its session.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			id = c.Value
		} else if hdr := r.Header.Get(sessionHeader); hdr != "" {
			id = hdr
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the session identity resolved by sessionMiddleware.
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}

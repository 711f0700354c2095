package handler

import (
	"net/http"
	"time"
)

// Conversation sessions travel in a header for API clients and in a
// cookie for the browser UI.
const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "darion_session"
)

const sessionCookieMaxAge = 30 * 24 * time.Hour

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// SessionFromRequest returns the caller's conversation session id, if any
func SessionFromRequest(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// setSession hands the session id back to the client
func setSession(w http.ResponseWriter, id string) {
	w.Header().Set(SessionHeader, id)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

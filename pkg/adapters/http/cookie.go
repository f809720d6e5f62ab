package http

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie names the cookie that identifies a viewer.
const SessionCookie = "session_id"

// sessionID returns the viewer's session id, issuing a new one when the request
// carries none or an invalid one. The session_id query parameter wins over the cookie.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if q := r.URL.Query().Get(SessionCookie); q != "" {
		if _, err := uuid.Parse(q); err == nil {
			return q
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

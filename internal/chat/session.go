package chat

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookie = "mentari_session"
	SessionHeader = "X-Session-ID"

	sessionCookieAge = 30 * 24 * time.Hour
	maxSessionIDLen  = 128
)

// sessionID resolves the conversation session in order: explicit value,
// X-Session-ID header, session cookie. A fresh id is minted when none is
// usable; fresh reports whether the caller should set the cookie.
func sessionID(r *http.Request, explicit string) (id string, fresh bool) {
	for _, c := range []string{explicit, r.Header.Get(SessionHeader), cookieValue(r)} {
		if c = strings.TrimSpace(c); c != "" && len(c) <= maxSessionIDLen {
			return c, false
		}
	}
	return uuid.NewString(), true
}

func cookieValue(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const SessionCookieName = "ballot_session"

type sessionIDKey struct{}

// SessionCookies identifies the voting session of a browser by a random id
// kept in a cookie. Credentials are stored server side under that id.
type SessionCookies struct {
	cookieDomain string
	secure       bool
}

func NewSessionCookies(cookieDomain string, secure bool) *SessionCookies {
	return &SessionCookies{
		cookieDomain: cookieDomain,
		secure:       secure,
	}
}

func (s *SessionCookies) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if parsed, err := uuid.Parse(cookie.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				Domain:   s.cookieDomain,
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session id set by the middleware, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

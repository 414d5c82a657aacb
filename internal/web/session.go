package web

import (
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/csvtable/internal/config"
	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// sessionKeyID is the cookie value holding the controller ID.
const sessionKeyID = "id"

// newSessionStore builds the signed cookie store. Without a configured
// secret a random key is generated, so sessions end on restart.
func newSessionStore(cfg config.SessionConfig) *sessions.CookieStore {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		slog.Warn("SESSION_SECRET not set, using a random key; sessions will not survive a restart")
	}

	store := sessions.NewCookieStore(secret)
	store.MaxAge(int(cfg.MaxAge.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.SecureCookie
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// sessionMiddleware resolves the request's controller ID from the session
// cookie, issuing a new one when the cookie is missing, tampered with or
// signed by an old key, and stores the ID in the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r, s.cfg.Session.CookieName)
		if err != nil {
			requestLogger(r).Debug("session cookie rejected", "error", err)
		}

		id, _ := sess.Values[sessionKeyID].(string)
		c := s.service.Controller(id)
		if c.ID() != id {
			sess.Values[sessionKeyID] = c.ID()
			if err := sess.Save(r, w); err != nil {
				requestLogger(r).Warn("session cookie not saved", "error", err)
			}
		}

		ctx := core.ContextWithSessionID(r.Context(), c.ID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

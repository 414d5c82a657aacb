package web

import (
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/JonMunkholm/csvtable/internal/logging"
)

// requestLogger returns a logger tagged with the request ID and, once the
// session middleware has run, the session ID.
func requestLogger(r *http.Request) *slog.Logger {
	ctx := r.Context()
	if id := core.SessionIDFromContext(ctx); id != "" {
		return logging.WithFields(ctx, "session", id)
	}
	return logging.FromContext(ctx)
}

// controller returns the Controller of the request's session.
func (s *Server) controller(r *http.Request) *core.Controller {
	return s.service.Controller(core.SessionIDFromContext(r.Context()))
}

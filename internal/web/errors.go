package web

// errors.go turns handler errors into responses.
//
// The technical error is logged with the request and session IDs; the
// client only ever sees the mapped core.UserMessage. Datastar requests get
// the alert patched into the page, API requests get JSON and plain browser
// requests get a text error page.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/JonMunkholm/csvtable/internal/web/templates"
	"github.com/starfederation/datastar-go/datastar"
)

// ErrorResponse is the JSON body of an error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the user-facing message in the format
// the client expects.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := requestLogger(r)
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	switch {
	case isDatastar(r):
		renderErrorPatch(w, r, userMsg)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		respondErrorHTML(w, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain error page.
func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" (Code: "+msg.Code+"). "+msg.Action, statusCode)
}

// renderErrorPatch shows the message in the page's alert slot. Event
// streams always answer 200; the alert carries the failure.
func renderErrorPatch(w http.ResponseWriter, r *http.Request, msg core.UserMessage) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(templates.ErrorAlert(msg.Message, msg.Action, msg.Code)); err != nil {
		requestLogger(r).Debug("error patch not delivered", "error", err)
	}
}

// statusFor picks the HTTP status for a domain error.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrFileTooLarge),
		errors.Is(err, core.ErrTooManyRows),
		errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyLoads):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidDirection),
		errors.Is(err, core.ErrInvalidColumn),
		errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

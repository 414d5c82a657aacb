package web

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/JonMunkholm/csvtable/internal/web/templates"
	"github.com/starfederation/datastar-go/datastar"
)

// multipartOverhead is the body allowance on top of the file size for
// multipart boundaries and part headers.
const multipartOverhead = 1 << 20

// filterSignals is the datastar signal set sent by the search box.
type filterSignals struct {
	Query string `json:"query"`
}

// handleIndex renders the full page for the session's table.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := s.controller(r).View()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(v).Render(r.Context(), w); err != nil {
		requestLogger(r).Error("render page", "error", err)
	}
}

// handleLoad reads the multipart "file" field and replaces the session's
// table. A request without a file leaves the table unchanged.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		requestLogger(r).Debug("load without a file, table unchanged")
		s.respondTable(w, r, s.controller(r))
		return
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = fmt.Errorf("%w: %w", core.ErrFileTooLarge, err)
			respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("multipart: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	id := core.SessionIDFromContext(r.Context())
	if _, err := s.service.Load(r.Context(), id, path.Base(header.Filename), file); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	s.respondTable(w, r, s.controller(r))
}

// handleSort reorders the data rows by the "dir" value ("asc" or "desc").
// An optional "column" overrides the configured sort column.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	dir, err := core.ParseDirection(r.FormValue("dir"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	column := -1
	if raw := strings.TrimSpace(r.FormValue("column")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, r, fmt.Errorf("%w: %q", core.ErrInvalidColumn, raw), http.StatusBadRequest)
			return
		}
		column = n
	}

	c := s.controller(r)
	start := time.Now()
	key := c.Sort(column, dir)
	requestLogger(r).Debug("table sorted",
		"column", key.Column,
		"direction", key.Direction,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.respondTable(w, r, c)
}

// handleFilter sets the search query from the datastar "query" signal or,
// for plain requests, the "q" parameter. Row order is not changed.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if isDatastar(r) {
		var signals filterSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			respondError(w, r, fmt.Errorf("read signals: %w", err), http.StatusBadRequest)
			return
		}
		query = signals.Query
	}

	c := s.controller(r)
	c.SetFilter(query)
	requestLogger(r).Debug("filter applied", "query_len", len(query))

	s.respondTable(w, r, c)
}

// handleTableJSON returns the current view as JSON.
func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.controller(r).View())
}

// handleExport downloads the table in its current row order, joined with
// commas and newlines. With visible=true, rows hidden by the filter are left
// out.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c := s.controller(r)
	v := c.View()

	t := core.Table{Header: v.Header}
	onlyVisible, _ := strconv.ParseBool(r.URL.Query().Get("visible"))
	for _, row := range v.Rows {
		if onlyVisible && row.Hidden {
			continue
		}
		t.Rows = append(t.Rows, row.Cells)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": exportName(v.FileName),
	}))
	if _, err := w.Write([]byte(t.String())); err != nil {
		requestLogger(r).Debug("export not delivered", "error", err)
	}
}

// handleHealth reports liveness and load slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.Count(),
		"loads":    s.service.LimiterStatus(),
	})
}

// respondTable answers a state change. Datastar clients get the table
// patched in place, JSON clients get the view, and browsers are redirected
// back to the page.
func (s *Server) respondTable(w http.ResponseWriter, r *http.Request, c *core.Controller) {
	switch {
	case isDatastar(r):
		v := c.View()
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(templates.ClearAlert()); err != nil {
			requestLogger(r).Debug("patch not delivered", "error", err)
			return
		}
		if err := sse.PatchElementTempl(templates.TablePartial(v)); err != nil {
			requestLogger(r).Debug("patch not delivered", "error", err)
		}
	case wantsJSON(r):
		writeJSON(w, r, http.StatusOK, c.View())
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// exportName derives the download name from the loaded file.
func exportName(fileName string) string {
	if fileName == "" || fileName == "." || fileName == "/" {
		return "table.csv"
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		fileName += ".csv"
	}
	return fileName
}

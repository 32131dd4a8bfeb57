package crew

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quipper/poc/crewcom/internal/crewstatus"
	"github.com/quipper/poc/crewcom/pkg/common/logger"
	rosterRepo "github.com/quipper/poc/crewcom/pkg/repositories/roster"
)

const requestIDHeader = "X-Request-Id"

type Handler struct {
	roster rosterRepo.Repository
	status *crewstatus.Registry

	// rosterMu serializes roster edits with the rebuild that follows them so
	// the registry is never rebuilt from an older list than the last edit.
	rosterMu sync.Mutex
}

// NewHandler wires the polling API to a roster store and a status registry.
func NewHandler(roster rosterRepo.Repository, status *crewstatus.Registry) *Handler {
	return &Handler{
		roster: roster,
		status: status,
	}
}

// Router returns a chi-based router for the console and remote pages.
// Every route answers both with and without the trailing slash.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/api/health", h.health)

	// Roster edits (admin page)
	get(r, "/crewadd", h.crewAdd)
	get(r, "/crewdelete", h.crewDelete)
	get(r, "/crewlist", h.crewList)

	// Console polling and acknowledge
	get(r, "/crewstatus", h.crewStatus)
	get(r, "/resetstatus", h.resetStatus)

	// Remote page
	get(r, "/mystatus", h.myStatus)
	get(r, "/requesttoggle", h.requestToggle)
	get(r, "/debug_log", h.debugLog)
	return r
}

func get(r chi.Router, path string, fn http.HandlerFunc) {
	r.Get(path, fn)
	r.Get(path+"/", fn)
}

// Resync rebuilds the status registry from the current roster.
func (h *Handler) Resync(ctx context.Context) error {
	h.rosterMu.Lock()
	defer h.rosterMu.Unlock()
	return h.resyncLocked(ctx)
}

func (h *Handler) resyncLocked(ctx context.Context) error {
	members, err := h.roster.ListMembers(ctx)
	if err != nil {
		return err
	}
	h.status.Rebuild(members)
	return nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.Ping(r.Context()); err != nil {
		logger.Warn("health: %v req=%s", err, reqID(r))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// debugLog lets remote pages forward client-side diagnostics to the server log.
func (h *Handler) debugLog(w http.ResponseWriter, r *http.Request) {
	logger.Info("debug_log: %s req=%s", r.URL.Query().Get("data"), reqID(r))
	writeJSON(w, http.StatusOK, map[string]string{"result": "success"})
}

// requestID tags each request with a correlation id, reusing the client's when sent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func reqID(r *http.Request) string { return r.Header.Get(requestIDHeader) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// idParam reads the id query parameter. present is false when the parameter
// is missing; ok is false when it is present but not an integer.
func idParam(r *http.Request) (id int64, present, ok bool) {
	s := strings.TrimSpace(r.URL.Query().Get("id"))
	if s == "" {
		return 0, false, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}

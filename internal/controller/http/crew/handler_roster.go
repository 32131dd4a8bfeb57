package crew

import (
	"net/http"
	"strings"

	"github.com/quipper/poc/crewcom/pkg/common/logger"
	rosterRepo "github.com/quipper/poc/crewcom/pkg/repositories/roster"
)

// crewAdd GET /crewadd/?name=
// Adding a member resets every status record to offline.
func (h *Handler) crewAdd(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		logger.Debug("crewAdd: missing name req=%s", reqID(r))
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	h.rosterMu.Lock()
	defer h.rosterMu.Unlock()

	id, err := h.roster.AddMember(r.Context(), name)
	if err != nil {
		logger.Error("add member %q: %v req=%s", name, err, reqID(r))
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if err := h.resyncLocked(r.Context()); err != nil {
		logger.Error("resync after add: %v req=%s", err, reqID(r))
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	logger.Debug("crewAdd: added id=%d name=%s req=%s", id, name, reqID(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// crewDelete GET /crewdelete/?id=
// The registry is rebuilt whether or not the id existed.
func (h *Handler) crewDelete(w http.ResponseWriter, r *http.Request) {
	id, present, ok := idParam(r)
	if !present {
		logger.Debug("crewDelete: missing id req=%s", reqID(r))
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	h.rosterMu.Lock()
	defer h.rosterMu.Unlock()

	if ok {
		if err := h.roster.DeleteMember(r.Context(), id); err != nil {
			logger.Error("delete member %d: %v req=%s", id, err, reqID(r))
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
	}
	if err := h.resyncLocked(r.Context()); err != nil {
		logger.Error("resync after delete: %v req=%s", err, reqID(r))
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	logger.Debug("crewDelete: id=%d known=%v req=%s", id, ok, reqID(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// crewList GET /crewlist/ returns the roster used to render the pages.
func (h *Handler) crewList(w http.ResponseWriter, r *http.Request) {
	members, err := h.roster.ListMembers(r.Context())
	if err != nil {
		logger.Error("list members: %v req=%s", err, reqID(r))
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if members == nil {
		members = []*rosterRepo.Member{}
	}
	logger.Debug("crewList: returned %d members req=%s", len(members), reqID(r))
	writeJSON(w, http.StatusOK, members)
}

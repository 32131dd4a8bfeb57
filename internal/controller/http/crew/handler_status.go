package crew

import (
	"net/http"

	"github.com/quipper/poc/crewcom/pkg/common/logger"
)

// crewStatus GET /crewstatus/ is polled by the console.
func (h *Handler) crewStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.GetAll())
}

// myStatus GET /mystatus/?id= is polled by a remote page for its own record.
// Unknown ids get an empty object.
func (h *Handler) myStatus(w http.ResponseWriter, r *http.Request) {
	id, present, ok := idParam(r)
	if !present {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if ok {
		if rec, found := h.status.Get(id); found {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// resetStatus GET /resetstatus/?id= acknowledges a request or toggles manually.
func (h *Handler) resetStatus(w http.ResponseWriter, r *http.Request) {
	id, present, ok := idParam(r)
	if !present {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	result := "none"
	if ok {
		if st, found := h.status.Acknowledge(id); found {
			result = string(st)
		}
	}
	logger.Debug("resetStatus: id=%d result=%s req=%s", id, result, reqID(r))
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

// requestToggle GET /requesttoggle/?id= raises the go-live request flag.
// Unknown ids still report success.
func (h *Handler) requestToggle(w http.ResponseWriter, r *http.Request) {
	id, present, ok := idParam(r)
	if !present {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	known := ok && h.status.RequestToggle(id)
	logger.Debug("requestToggle: id=%d known=%v req=%s", id, known, reqID(r))
	writeJSON(w, http.StatusOK, map[string]string{"result": "success"})
}

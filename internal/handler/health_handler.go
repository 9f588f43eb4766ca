package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	TrackedViews int64  `json:"trackedViews"`
}

// Health reports whether the view store answers and how many visitor/blog
// pairs it currently remembers. Without a database the in-memory store is
// used and Database reads "memory".
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "memory"}

	if h.DB != nil {
		resp.Database = "ok"
		if err := h.DB.HealthCheck(); err != nil {
			resp.Status, resp.Database = "degraded", err.Error()
			writeSuccess(w, resp, http.StatusServiceUnavailable)
			return
		}
	}

	count, err := h.ViewService.Tracked(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp.TrackedViews = count

	writeSuccess(w, resp, http.StatusOK)
}

package handlers

import (
	"context"
	"log"
	"mixed-route-service/internal/platform/obs"
	"net/http"
	"time"
)

// HealthHandler reports liveness plus the state of optional dependencies.
type HealthHandler struct {
	// Checks are named probes, e.g. "postgres" or "redis". Any failure yields 503.
	Checks map[string]func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	res := map[string]string{"status": "ok"}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			log.Printf("req_id=%s health check failed: dep=%s err=%v", obs.RequestID(ctx), name, err)
			res[name] = "unavailable"
			res["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "ok"
	}

	writeJSON(w, r, status, res)
}

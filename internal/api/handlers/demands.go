package handlers

import (
	"log"
	"mixed-route-service/internal/api/dto"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"mixed-route-service/internal/ports"
	"net/http"
)

// DemandHandler exposes read-only demand retrieval endpoints.
type DemandHandler struct {
	Repo ports.EventRepository
}

func (h *DemandHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	deliveries, pickups, err := h.Repo.ListDemands(r.Context())
	if err != nil {
		log.Printf("req_id=%s list demands failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListDemandsResponse{
		Deliveries: toDemandResponses(deliveries),
		Pickups:    toDemandResponses(pickups),
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toDemandResponses(in []domain.Demand) []dto.DemandResponse {
	out := make([]dto.DemandResponse, 0, len(in))
	for _, d := range in {
		out = append(out, dto.DemandResponse{
			Lat:    d.Position.Lat,
			Lng:    d.Position.Lng,
			Volume: d.Volume,
		})
	}
	return out
}

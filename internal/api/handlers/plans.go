package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mixed-route-service/internal/adapters/render"
	"mixed-route-service/internal/api/dto"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"mixed-route-service/internal/ports"
	"mixed-route-service/internal/services"
	"net/http"
	"strings"
)

const maxPlanBody = 1 << 16

type PlanHandler struct {
	Events    ports.EventRepository
	Plans     ports.PlanRepository
	Durations ports.DurationMatrixProvider
	Geometry  ports.GeometryProvider
	// Defaults supplies depot, solver params and event options; request fields override Params and Seed.
	Defaults services.PlanRequest
}

// Create computes a plan from the stored demands, persists it and returns it.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CreatePlanRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlanBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq := h.Defaults
	if req.VehicleCapacity != 0 {
		svcReq.Params.VehicleCapacity = req.VehicleCapacity
	}
	if req.MaxPickupsPerRoute != nil {
		svcReq.Params.MaxPickupsPerRoute = *req.MaxPickupsPerRoute
	}
	if req.Seed != 0 {
		svcReq.Seed = req.Seed
	}

	if err := svcReq.Params.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	plan, err := services.PlanRoutes(r.Context(), svcReq, h.Events, h.Durations, h.Geometry)
	if err != nil {
		log.Printf("req_id=%s plan routes failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Plans.SavePlan(r.Context(), plan); err != nil {
		log.Printf("req_id=%s save plan failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Location", "/plans/"+plan.ID)
	writeJSON(w, r, http.StatusCreated, toPlanResponse(plan))
}

// Get returns a stored plan as JSON.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

// KML renders a stored plan for map viewers.
func (h *PlanHandler) KML(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.NewKMLWriter("Plan "+plan.ID).Write(&buf, plan.Routes); err != nil {
		log.Printf("req_id=%s render kml failed: id=%s err=%v", obs.RequestID(r.Context()), plan.ID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="routes_`+plan.ID+`.kml"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write kml failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func (h *PlanHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Plan, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "plan id is required")
		return nil, false
	}

	plan, err := h.Plans.GetPlan(r.Context(), id)
	if errors.Is(err, ports.ErrPlanNotFound) {
		writeError(w, r, http.StatusNotFound, "plan not found")
		return nil, false
	}
	if err != nil {
		log.Printf("req_id=%s get plan failed: id=%s err=%v", obs.RequestID(r.Context()), id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return plan, true
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCapacity):
		return "vehicle_capacity must be a positive number"
	case errors.Is(err, domain.ErrInvalidMaxPickups):
		return "max_pickups_per_route must not be negative"
	default:
		return "invalid plan parameters"
	}
}

func toPlanResponse(p *domain.Plan) dto.PlanResponse {
	res := dto.PlanResponse{
		ID:                 p.ID,
		CreatedAt:          p.CreatedAt,
		VehicleCapacity:    p.Params.VehicleCapacity,
		MaxPickupsPerRoute: p.Params.MaxPickupsPerRoute,
		Routes:             make([]dto.RouteResponse, 0, len(p.Routes)),
	}

	for i, route := range p.Routes {
		loads := services.RunningLoads(route)
		steps := make([]dto.StepResponse, 0, len(route.Steps))
		for k, s := range route.Steps {
			steps = append(steps, dto.StepResponse{
				ID:        s.ID,
				Role:      s.Role.String(),
				Lat:       s.Position.Lat,
				Lng:       s.Position.Lng,
				Volume:    s.Volume,
				LoadAfter: loads[k],
			})
		}

		res.Routes = append(res.Routes, dto.RouteResponse{
			Vehicle:          i + 1,
			DurationSeconds:  route.DurationSeconds,
			DeliveriesVolume: route.DeliveriesVolume,
			PickupsVolume:    route.PickupsVolume,
			Geometry:         route.Geometry,
			Steps:            steps,
		})
	}

	return res
}

package api

import (
	"context"
	"mixed-route-service/internal/api/handlers"
	"mixed-route-service/internal/metrics"
	"mixed-route-service/internal/ports"
	"mixed-route-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the adapters the HTTP layer runs against.
type Deps struct {
	Events    ports.EventRepository
	Plans     ports.PlanRepository
	Durations ports.DurationMatrixProvider
	Geometry  ports.GeometryProvider
	Defaults  services.PlanRequest
	// PlanLimiter throttles POST /plans; nil disables it.
	PlanLimiter  *rate.Limiter
	HealthChecks map[string]func(ctx context.Context) error
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: deps.HealthChecks}
	demandHandler := &handlers.DemandHandler{Repo: deps.Events}
	planHandler := &handlers.PlanHandler{
		Events:    deps.Events,
		Plans:     deps.Plans,
		Durations: deps.Durations,
		Geometry:  deps.Geometry,
		Defaults:  deps.Defaults,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/demands", demandHandler.List)
	mux.Handle("/plans", rateLimit(http.MethodPost, deps.PlanLimiter, http.HandlerFunc(planHandler.Create)))
	mux.HandleFunc("/plans/{id}", planHandler.Get)
	mux.HandleFunc("/plans/{id}/kml", planHandler.KML)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(metricsMiddleware(mux)))
}

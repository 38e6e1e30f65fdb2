package api

import (
	"context"
	"encoding/json"
	"errors"
	"mixed-route-service/internal/adapters/distance"
	"mixed-route-service/internal/adapters/repositories"
	"mixed-route-service/internal/api/dto"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubEvents struct {
	deliveries []domain.Demand
	pickups    []domain.Demand
	err        error
}

func (s *stubEvents) ListDemands(context.Context) ([]domain.Demand, []domain.Demand, error) {
	return s.deliveries, s.pickups, s.err
}

func demand(lat, lng, vol float64) domain.Demand {
	return domain.Demand{Position: domain.Coordinates{Lat: lat, Lng: lng}, Volume: vol}
}

func newTestRouter(t *testing.T, events *stubEvents, lim *rate.Limiter) http.Handler {
	t.Helper()

	provider := distance.NewMockProvider(nil)
	return NewRouter(Deps{
		Events:    events,
		Plans:     repositories.NewMemoryPlanRepository(),
		Durations: provider,
		Geometry:  provider,
		Defaults: services.PlanRequest{
			Depot:     domain.NewDepot(domain.Coordinates{Lat: 24.92, Lng: 55.12}, 0),
			Params:    domain.Params{VehicleCapacity: 100, MaxPickupsPerRoute: 1},
			SpeedKmh:  30,
			MaxPoints: 100,
		},
		PlanLimiter: lim,
	})
}

func sampleEvents() *stubEvents {
	return &stubEvents{
		deliveries: []domain.Demand{demand(24.95, 55.15, 30), demand(24.96, 55.16, 20)},
		pickups:    []domain.Demand{demand(24.97, 55.17, 10)},
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthReportsFailingDependency(t *testing.T) {
	h := NewRouter(Deps{HealthChecks: map[string]func(context.Context) error{
		"postgres": func(context.Context) error { return errors.New("down") },
	}})

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"unavailable"`)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestListDemands(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	rec := do(t, h, http.MethodGet, "/demands", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListDemandsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Deliveries, 2)
	assert.Len(t, res.Pickups, 1)
}

func TestListDemandsFailure(t *testing.T) {
	h := newTestRouter(t, &stubEvents{err: errors.New("boom")}, nil)

	rec := do(t, h, http.MethodGet, "/demands", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestCreateAndFetchPlan(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	rec := do(t, h, http.MethodPost, "/plans", `{"vehicle_capacity": 100, "max_pickups_per_route": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.Routes)
	assert.Equal(t, "/plans/"+created.ID, rec.Header().Get("Location"))

	for _, r := range created.Routes {
		assert.Equal(t, domain.DepotID, r.Steps[0].ID)
		assert.Equal(t, domain.DepotID, r.Steps[len(r.Steps)-1].ID)
		for _, s := range r.Steps {
			assert.LessOrEqual(t, s.LoadAfter, 100.0)
		}
	}

	rec = do(t, h, http.MethodGet, "/plans/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, len(created.Routes), len(fetched.Routes))

	rec = do(t, h, http.MethodGet, "/plans/"+created.ID+"/kml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<kml")
}

func TestCreatePlanEmptyBodyUsesDefaults(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	rec := do(t, h, http.MethodPost, "/plans", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 100.0, created.VehicleCapacity)
	assert.Equal(t, 1, created.MaxPickupsPerRoute)
}

func TestCreatePlanBadRequests(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed", body: `{`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"trucks": 3}`, want: http.StatusBadRequest},
		{name: "two objects", body: `{} {}`, want: http.StatusBadRequest},
		{name: "negative capacity", body: `{"vehicle_capacity": -1}`, want: http.StatusBadRequest},
		{name: "negative pickups", body: `{"max_pickups_per_route": -2}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/plans", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCreatePlanServiceFailure(t *testing.T) {
	h := newTestRouter(t, &stubEvents{err: errors.New("db down")}, nil)

	rec := do(t, h, http.MethodPost, "/plans", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetUnknownPlan(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	rec := do(t, h, http.MethodGet, "/plans/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/plans/missing/kml", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/plans/missing", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPlanRateLimit(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), rate.NewLimiter(rate.Limit(0.001), 1))

	rec := do(t, h, http.MethodPost, "/plans", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/plans", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, sampleEvents(), nil)

	_ = do(t, h, http.MethodGet, "/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

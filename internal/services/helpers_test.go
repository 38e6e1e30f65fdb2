package services

import (
	"context"
	"fmt"
	"mixed-route-service/internal/domain"
	"slices"
)

type leg struct {
	from, to int
	seconds  float64
}

// symmetricMatrix builds an n x n duration matrix from one direction of each leg.
func symmetricMatrix(n int, legs []leg) domain.DurationMatrix {
	d := make(domain.DurationMatrix, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for _, l := range legs {
		d[l.from][l.to] = l.seconds
		d[l.to][l.from] = l.seconds
	}
	return d
}

func depot() domain.Event {
	return domain.NewDepot(domain.Coordinates{Lat: 24.9197, Lng: 55.1224}, 0)
}

func delivery(n int, volume float64) domain.Event {
	return domain.Event{ID: fmt.Sprintf("D%d", n), Role: domain.RoleDelivery, Volume: volume}
}

func pickup(n int, volume float64) domain.Event {
	return domain.Event{ID: fmt.Sprintf("P%d", n), Role: domain.RolePickup, Volume: volume}
}

func routesEqual(a, b []domain.Route) bool {
	return slices.EqualFunc(a, b, func(x, y domain.Route) bool { return slices.Equal(x, y) })
}

// memoryRepo serves fixed demands.
type memoryRepo struct {
	deliveries []domain.Demand
	pickups    []domain.Demand
	err        error
}

func (r *memoryRepo) ListDemands(ctx context.Context) ([]domain.Demand, []domain.Demand, error) {
	return r.deliveries, r.pickups, r.err
}

// matrixProvider returns a fixed matrix and counts calls.
type matrixProvider struct {
	matrix [][]*float64
	err    error
	calls  int
}

func (p *matrixProvider) GetDurations(ctx context.Context, points []domain.Coordinates) ([][]*float64, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.matrix, nil
}

type geometryStub struct {
	err error
}

func (g geometryStub) GetGeometry(ctx context.Context, points []domain.Coordinates) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("geom-%d", len(points)), nil
}

func ptr(v float64) *float64 { return &v }

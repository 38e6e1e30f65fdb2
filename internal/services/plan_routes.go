package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/metrics"
	"mixed-route-service/internal/platform/obs"
	"mixed-route-service/internal/ports"
	"time"

	"github.com/google/uuid"
)

type PlanRequest struct {
	Depot     domain.Event
	Params    domain.Params
	SpeedKmh  float64
	MaxPoints int
	// Shuffle randomizes record order before numbering. A zero Seed draws one from the clock.
	Shuffle bool
	Seed    uint64
}

// PlanRoutes computes one static route plan from the stored demands.
//
// The duration matrix is fetched once before merging; the savings computation
// and merge loop then run to completion without external calls. Any input or
// routing-service failure aborts the whole plan.
func PlanRoutes(
	ctx context.Context,
	req PlanRequest,
	repo ports.EventRepository,
	durations ports.DurationMatrixProvider,
	geometry ports.GeometryProvider,
) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "plan.Routes")(&err)

	if repo == nil {
		return nil, errors.New("plan routes: repository is nil")
	}
	if err := req.Params.Validate(); err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	deliveries, pickups, err := repo.ListDemands(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan routes: list demands: %w", err)
	}

	opts := EventOptions{MaxPoints: req.MaxPoints}
	if req.Shuffle {
		seed := req.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}

	events, err := BuildEvents(req.Depot, deliveries, pickups, opts)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	matrix, err := BuildDurationMatrix(ctx, durations, events, req.SpeedKmh)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	routes, stats, err := SolveRoutes(events, matrix, req.Params)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	summaries, err := DescribeRoutes(ctx, events, matrix, DispatchableRoutes(events, routes), geometry)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	reqID := obs.RequestID(ctx)
	log.Printf(
		"req_id=%s op=plan.merge events=%d routes=%d dispatched=%d accepted=%d rejected_capacity=%d rejected_running_load=%d dropped_pickups=%d",
		reqID, len(events), len(routes), len(summaries), stats.Accepted, stats.RejectedCapacity, stats.RejectedRunningLoad, stats.DroppedPickups,
	)

	return &domain.Plan{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Params:    req.Params,
		Routes:    summaries,
	}, nil
}

// SolveRoutes runs the savings engine and the route merger on a prepared event list.
func SolveRoutes(events []domain.Event, matrix domain.DurationMatrix, params domain.Params) ([]domain.Route, MergeStats, error) {
	if matrix.Size() != len(events) {
		return nil, MergeStats{}, fmt.Errorf("solve routes: matrix covers %d events, want %d", matrix.Size(), len(events))
	}

	start := time.Now()

	merger, err := NewRouteMerger(events, params)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("solve routes: %w", err)
	}

	routes, err := merger.Merge(ComputeSavings(matrix))
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("solve routes: %w", err)
	}

	stats := merger.Stats()
	metrics.ObserveSolve(time.Since(start), stats.Accepted, stats.RejectedCapacity, stats.RejectedRunningLoad, stats.DroppedPickups)

	return routes, stats, nil
}

package services

import (
	"context"
	"fmt"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"mixed-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Geometry lookups are independent per route but hit the same external service.
const geometryConcurrency = 4

// DispatchableRoutes drops routes whose only stop is a pickup. A pickup with no
// accompanying delivery is an artifact of the merge loop, not a vehicle trip.
func DispatchableRoutes(events []domain.Event, routes []domain.Route) []domain.Route {
	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		if len(r) == 3 && events[r[1]].IsPickup() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DescribeRoutes turns index routes into summaries with travel duration, volumes
// and, when a geometry provider is given, the encoded path of each route.
func DescribeRoutes(
	ctx context.Context,
	events []domain.Event,
	durations domain.DurationMatrix,
	routes []domain.Route,
	geometry ports.GeometryProvider,
) (_ []domain.RouteSummary, err error) {
	defer obs.Time(ctx, "routes.Describe")(&err)

	summaries := make([]domain.RouteSummary, len(routes))
	for i, r := range routes {
		summaries[i] = describeRoute(events, durations, r)
	}

	if geometry == nil {
		return summaries, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geometryConcurrency)
	for i := range summaries {
		g.Go(func() error {
			points := make([]domain.Coordinates, len(summaries[i].Steps))
			for k, step := range summaries[i].Steps {
				points[k] = step.Position
			}

			geom, err := geometry.GetGeometry(gctx, points)
			if err != nil {
				return fmt.Errorf("describe routes: geometry of route %d: %w", i+1, err)
			}
			summaries[i].Geometry = geom
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func describeRoute(events []domain.Event, durations domain.DurationMatrix, r domain.Route) domain.RouteSummary {
	s := domain.RouteSummary{
		Steps:           make([]domain.Event, 0, len(r)),
		DurationSeconds: durations.RouteDuration(r),
	}
	for _, ix := range r {
		e := events[ix]
		if e.IsDelivery() {
			s.DeliveriesVolume += e.Volume
		} else {
			s.PickupsVolume += e.Volume
		}
		s.Steps = append(s.Steps, e)
	}
	return s
}

package ports

import (
	"context"
	"mixed-route-service/internal/domain"
)

// Contract for retrieving pairwise travel durations between locations.
type DurationMatrixProvider interface {
	// Return an NxN matrix of travel durations in seconds between every pair of points,
	// in the order given. A nil cell means the service could not route that pair.
	GetDurations(ctx context.Context, points []domain.Coordinates) ([][]*float64, error)
}

// Contract for retrieving the drivable path through an ordered list of points.
type GeometryProvider interface {
	// Return the route geometry as an encoded polyline (precision 5).
	GetGeometry(ctx context.Context, points []domain.Coordinates) (string, error)
}

// Routing services usually offer both.
type RoutingProvider interface {
	DurationMatrixProvider
	GeometryProvider
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"mixed-route-service/internal/ports"
)

// BuildDurationMatrix queries the provider exactly once for all events and
// fills every pair the service could not route with a straight-line estimate
// at the given vehicle speed.
//
// A provider failure is returned as-is; there is no retry at this level.
func BuildDurationMatrix(
	ctx context.Context,
	provider ports.DurationMatrixProvider,
	events []domain.Event,
	speedKmh float64,
) (_ domain.DurationMatrix, err error) {
	defer obs.Time(ctx, "durations.Build")(&err)

	if provider == nil {
		return nil, errors.New("build duration matrix: provider is nil")
	}
	if speedKmh <= 0 || math.IsNaN(speedKmh) || math.IsInf(speedKmh, 0) {
		return nil, fmt.Errorf("build duration matrix: vehicle speed must be positive, got %v", speedKmh)
	}

	points := eventPositions(events)
	raw, err := provider.GetDurations(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("build duration matrix: get durations: %w", err)
	}

	return FillDurations(raw, points, speedKmh)
}

// FillDurations converts a provider matrix into a complete DurationMatrix.
// Missing cells become haversine distance over speedKmh, in seconds. The diagonal is forced to zero.
func FillDurations(raw [][]*float64, points []domain.Coordinates, speedKmh float64) (domain.DurationMatrix, error) {
	n := len(points)
	if len(raw) != n {
		return nil, fmt.Errorf("fill durations: matrix has %d rows, want %d", len(raw), n)
	}

	out := make(domain.DurationMatrix, n)
	filled := 0
	for i := 0; i < n; i++ {
		if len(raw[i]) != n {
			return nil, fmt.Errorf("fill durations: row %d has %d columns, want %d", i, len(raw[i]), n)
		}

		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			cell := raw[i][j]
			if cell == nil {
				out[i][j] = domain.HaversineKm(points[i], points[j]) / speedKmh * 3600
				filled++
				continue
			}

			if math.IsNaN(*cell) || math.IsInf(*cell, 0) || *cell < 0 {
				return nil, fmt.Errorf("fill durations: invalid duration %v at [%d][%d]", *cell, i, j)
			}
			out[i][j] = *cell
		}
	}

	if filled > 0 {
		log.Printf("durations.fallback cells=%d speed_kmh=%v", filled, speedKmh)
	}

	return out, nil
}

package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"mixed-route-service/internal/domain"
)

// EventOptions controls how raw demands become the event list.
type EventOptions struct {
	// Shuffle source; nil keeps the input order.
	Rand *rand.Rand
	// Maximum number of points the routing service accepts, depot included. Zero disables the limit.
	MaxPoints int
}

// BuildEvents validates raw demand records and numbers them into the event list:
// the depot at index 0, then deliveries D1..Dn, then pickups P1..Pm.
//
// Records are shuffled per set before numbering to avoid positional bias.
// When the routing service limits the number of points, deliveries are truncated
// so that every pickup still fits.
func BuildEvents(depot domain.Event, deliveries, pickups []domain.Demand, opts EventOptions) ([]domain.Event, error) {
	if depot.Role != domain.RoleDepot {
		return nil, errors.New("build events: depot event must carry the depot role")
	}
	if !depot.Position.Valid() {
		return nil, fmt.Errorf("build events: depot: %w", domain.ErrInvalidPosition)
	}
	if depot.Volume != 0 {
		return nil, fmt.Errorf("build events: depot volume=%v: %w", depot.Volume, domain.ErrDepotVolume)
	}

	if err := validateDemands("delivery", deliveries); err != nil {
		return nil, fmt.Errorf("build events: %w", err)
	}
	if err := validateDemands("pickup", pickups); err != nil {
		return nil, fmt.Errorf("build events: %w", err)
	}

	deliveries = append([]domain.Demand(nil), deliveries...)
	pickups = append([]domain.Demand(nil), pickups...)

	if opts.Rand != nil {
		opts.Rand.Shuffle(len(pickups), func(i, j int) { pickups[i], pickups[j] = pickups[j], pickups[i] })
		opts.Rand.Shuffle(len(deliveries), func(i, j int) { deliveries[i], deliveries[j] = deliveries[j], deliveries[i] })
	}

	if opts.MaxPoints > 0 {
		room := opts.MaxPoints - 1 - len(pickups)
		if room < 0 {
			return nil, fmt.Errorf(
				"build events: %d pickups do not fit the routing limit of %d points",
				len(pickups), opts.MaxPoints,
			)
		}
		if len(deliveries) > room {
			deliveries = deliveries[:room]
		}
	}

	events := make([]domain.Event, 0, 1+len(deliveries)+len(pickups))
	events = append(events, depot)
	for i, d := range deliveries {
		events = append(events, domain.Event{
			ID:       fmt.Sprintf("D%d", i+1),
			Role:     domain.RoleDelivery,
			Position: d.Position,
			Volume:   d.Volume,
		})
	}
	for i, p := range pickups {
		events = append(events, domain.Event{
			ID:       fmt.Sprintf("P%d", i+1),
			Role:     domain.RolePickup,
			Position: p.Position,
			Volume:   p.Volume,
		})
	}

	return events, nil
}

func validateDemands(kind string, demands []domain.Demand) error {
	for i, d := range demands {
		if !d.Position.Valid() {
			return fmt.Errorf("%s record %d: %w", kind, i+1, domain.ErrInvalidPosition)
		}
		if math.IsNaN(d.Volume) || math.IsInf(d.Volume, 0) || d.Volume < 0 {
			return fmt.Errorf("%s record %d volume=%v: %w", kind, i+1, d.Volume, domain.ErrInvalidVolume)
		}
	}
	return nil
}

func eventPositions(events []domain.Event) []domain.Coordinates {
	points := make([]domain.Coordinates, len(events))
	for i, e := range events {
		points[i] = e.Position
	}
	return points
}

package domain

import "time"

// Route is an ordered sequence of event indices that starts and ends at the depot (index 0).
type Route []int

// PickupCount returns the number of pickup-role events on the route.
func (r Route) PickupCount(events []Event) int {
	n := 0
	for _, ix := range r {
		if events[ix].IsPickup() {
			n++
		}
	}
	return n
}

// DeliveryLoad returns the volume loaded at the depot for all drop-offs on the route.
func (r Route) DeliveryLoad(events []Event) float64 {
	total := 0.0
	for _, ix := range r {
		if events[ix].IsDelivery() {
			total += events[ix].Volume
		}
	}
	return total
}

// Represents the dispatchable route of a single vehicle.
// A RouteSummary is the output of route planning: the ordered stops, including
// the depot at both ends, along with aggregate duration and volume metrics.
type RouteSummary struct {
	Steps            []Event
	DurationSeconds  float64
	DeliveriesVolume float64
	PickupsVolume    float64
	Geometry         string
}

// Plan is a stored, immutable result of one solve.
type Plan struct {
	ID        string
	CreatedAt time.Time
	Params    Params
	Routes    []RouteSummary
}

package services

import (
	"mixed-route-service/internal/domain"
	"slices"
)

// LimitPickups enforces the per-route pickup limit on a tentative route.
//
// Walking the route in visiting order, the pickup whose appearance pushes the
// count above maxPickups is removed and the walk stops. It returns the
// trimmed route, the pickup count observed (including the removed pickup),
// and the removed event index or -1 when nothing was dropped.
func LimitPickups(route domain.Route, events []domain.Event, maxPickups int) (domain.Route, int, int) {
	count := 0
	for pos, ix := range route {
		if !events[ix].IsPickup() {
			continue
		}

		count++
		if count > maxPickups {
			return slices.Delete(slices.Clone(route), pos, pos+1), count, ix
		}
	}
	return route, count, -1
}

// DeliveryLoad returns the volume the vehicle carries when it leaves the depot.
func DeliveryLoad(route domain.Route, events []domain.Event) float64 {
	return route.DeliveryLoad(events)
}

// RunningLoadWithinCapacity simulates the vehicle load along the route: it starts
// at the delivery load, drops each delivery and adds each pickup in visiting order.
// It reports false as soon as the load exceeds capacity.
func RunningLoadWithinCapacity(route domain.Route, events []domain.Event, deliveryLoad, capacity float64) bool {
	load := deliveryLoad
	for _, ix := range route {
		if events[ix].IsDelivery() {
			load -= events[ix].Volume
		} else {
			load += events[ix].Volume
		}

		if load > capacity {
			return false
		}
	}
	return true
}

// RunningLoads returns the vehicle load remaining after each step of a summary.
func RunningLoads(summary domain.RouteSummary) []float64 {
	loads := make([]float64, len(summary.Steps))
	load := summary.DeliveriesVolume
	for i, step := range summary.Steps {
		if step.IsDelivery() {
			load -= step.Volume
		} else {
			load += step.Volume
		}
		loads[i] = load
	}
	return loads
}

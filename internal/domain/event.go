package domain

// Role of a stop within a route plan.
type Role int

const (
	RoleDepot Role = iota
	RoleDelivery
	RolePickup
)

// DepotID identifies the depot event in every plan.
const DepotID = "origin"

func (r Role) String() string {
	switch r {
	case RoleDepot:
		return "depot"
	case RoleDelivery:
		return "delivery"
	case RolePickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Demand is a raw input record: a location and the volume to drop off or collect.
type Demand struct {
	Position Coordinates
	Volume   float64
}

// Represents a single stop handled by the planner.
// Events are built once per solve and never mutated. The depot is always
// index 0 of the event list; deliveries follow, then pickups.
type Event struct {
	ID       string
	Role     Role
	Position Coordinates
	Volume   float64
}

func NewDepot(pos Coordinates, volume float64) Event {
	return Event{ID: DepotID, Role: RoleDepot, Position: pos, Volume: volume}
}

// IsPickup reports whether the event collects cargo.
func (e Event) IsPickup() bool { return e.Role == RolePickup }

// IsDelivery reports whether the event drops cargo off.
// The depot counts as a zero-volume drop-off so load arithmetic treats it like a delivery.
func (e Event) IsDelivery() bool { return e.Role == RoleDelivery || e.Role == RoleDepot }

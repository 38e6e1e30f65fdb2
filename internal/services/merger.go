package services

import (
	"errors"
	"fmt"
	"mixed-route-service/internal/domain"
	"slices"
)

// MergeStats counts the outcome of every candidate pair of one Merge run.
type MergeStats struct {
	Candidates          int
	Accepted            int
	SkippedExcluded     int
	SkippedSameRoute    int
	RejectedPickupLimit int
	RejectedCapacity    int
	RejectedRunningLoad int
	DroppedPickups      int
}

// RouteMerger builds routes with the Clarke-Wright savings heuristic, gated by
// the pickup limit, the delivery capacity and the in-route running load.
//
// Routes live in an arena of slots. Slot k starts as [depot, k+1, depot];
// owner maps each event to the slot currently holding it, so locating the
// route of an event is a lookup rather than a scan. A RouteMerger is not safe
// for concurrent use: every accepted merge depends on all earlier ones.
type RouteMerger struct {
	events []domain.Event
	params domain.Params

	slots    []domain.Route
	owner    []int
	excluded map[int]struct{}
	stats    MergeStats
}

func NewRouteMerger(events []domain.Event, params domain.Params) (*RouteMerger, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("new route merger: %w", err)
	}
	if len(events) == 0 || events[0].Role != domain.RoleDepot {
		return nil, errors.New("new route merger: event 0 must be the depot")
	}
	for i, e := range events[1:] {
		if e.Role == domain.RoleDepot {
			return nil, fmt.Errorf("new route merger: event %d is a second depot", i+1)
		}
	}

	return &RouteMerger{events: events, params: params}, nil
}

// Merge runs the greedy merge loop over the savings in descending order and
// returns the final routes in slot order. Infeasible merges are skipped silently.
func (m *RouteMerger) Merge(savings SavingsMatrix) ([]domain.Route, error) {
	if savings.Size() != len(m.events) {
		return nil, fmt.Errorf(
			"merge routes: savings matrix covers %d events, want %d",
			savings.Size(), len(m.events),
		)
	}

	m.reset()

	candidates := savings.Candidates()
	m.stats.Candidates = len(candidates)

	for _, c := range candidates {
		m.tryMerge(c.I, c.J)
	}

	routes := make([]domain.Route, 0, len(m.slots))
	for _, r := range m.slots {
		if r != nil {
			routes = append(routes, r)
		}
	}
	return routes, nil
}

// Stats returns the counters of the last Merge run.
func (m *RouteMerger) Stats() MergeStats { return m.stats }

// Excluded reports whether a pickup was dropped for exceeding the pickup limit.
func (m *RouteMerger) Excluded(event int) bool {
	_, ok := m.excluded[event]
	return ok
}

func (m *RouteMerger) reset() {
	n := len(m.events)
	m.slots = make([]domain.Route, n-1)
	m.owner = make([]int, n)
	m.owner[0] = -1
	for ix := 1; ix < n; ix++ {
		m.slots[ix-1] = domain.Route{0, ix, 0}
		m.owner[ix] = ix - 1
	}
	m.excluded = make(map[int]struct{})
	m.stats = MergeStats{}
}

func (m *RouteMerger) tryMerge(i, j int) {
	if m.Excluded(i) || m.Excluded(j) {
		m.stats.SkippedExcluded++
		return
	}

	si, sj := m.owner[i], m.owner[j]
	if si == sj {
		m.stats.SkippedSameRoute++
		return
	}

	merged := splice(m.slots[si], m.slots[sj])

	merged, pickups, dropped := LimitPickups(merged, m.events, m.params.MaxPickupsPerRoute)

	// Only one pickup is dropped per merge; two routes that each already
	// carry several pickups can still overflow the limit.
	if dropped >= 0 && merged.PickupCount(m.events) > m.params.MaxPickupsPerRoute {
		m.stats.RejectedPickupLimit++
		return
	}

	load := DeliveryLoad(merged, m.events)
	if load > m.params.VehicleCapacity {
		m.stats.RejectedCapacity++
		return
	}

	if pickups >= 1 && !RunningLoadWithinCapacity(merged, m.events, load, m.params.VehicleCapacity) {
		m.stats.RejectedRunningLoad++
		return
	}

	m.slots[si] = merged
	m.slots[sj] = nil
	for _, ix := range merged {
		if ix != 0 {
			m.owner[ix] = si
		}
	}

	if dropped >= 0 {
		m.owner[dropped] = -1
		m.excluded[dropped] = struct{}{}
		m.stats.DroppedPickups++
	}
	m.stats.Accepted++
}

// splice opens the closing end of a and the opening end of b and joins them:
// a without its trailing depot, followed by b reversed without its leading depot.
func splice(a, b domain.Route) domain.Route {
	out := make(domain.Route, 0, len(a)+len(b)-2)
	out = append(out, a[:len(a)-1]...)

	rev := slices.Clone(b)
	slices.Reverse(rev)
	return append(out, rev[1:]...)
}

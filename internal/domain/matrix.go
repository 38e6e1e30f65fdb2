package domain

// DurationMatrix holds travel times in seconds; D[i][j] is the time from event i to event j.
// It is built once per solve and read-only afterwards.
type DurationMatrix [][]float64

// Size returns the number of events the matrix covers.
func (d DurationMatrix) Size() int { return len(d) }

// RouteDuration sums the legs between consecutive stops of the route.
func (d DurationMatrix) RouteDuration(r Route) float64 {
	total := 0.0
	for i := 0; i+1 < len(r); i++ {
		total += d[r[i]][r[i+1]]
	}
	return total
}

package services

import (
	"mixed-route-service/internal/domain"
	"slices"
)

// Saving is one merge candidate: serving I and J on one route instead of two round trips.
type Saving struct {
	I, J  int
	Value float64
}

// SavingsMatrix stores S[i][j] = D[0][i] + D[0][j] - D[i][j] for i < j.
// Only the upper triangle is populated; At treats (i, j) and (j, i) as the same pair.
type SavingsMatrix struct {
	values [][]float64
}

// ComputeSavings derives the savings of every unordered pair from the duration matrix,
// with the depot at index 0. It has no side effects and always returns the same matrix
// for the same input.
func ComputeSavings(d domain.DurationMatrix) SavingsMatrix {
	n := d.Size()
	values := make([][]float64, n)
	for i := 0; i < n; i++ {
		values[i] = make([]float64, n)
		for j := i + 1; j < n; j++ {
			values[i][j] = d[0][i] + d[0][j] - d[i][j]
		}
	}
	return SavingsMatrix{values: values}
}

// Size returns the number of events covered by the matrix.
func (s SavingsMatrix) Size() int { return len(s.values) }

// At returns the saving of the unordered pair (i, j). The diagonal is zero.
func (s SavingsMatrix) At(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return s.values[i][j]
}

// Candidates lists every customer pair (i < j, neither the depot) ordered by
// strictly descending saving. Equal savings keep lexicographic (i, j) order,
// so the merge sequence is reproducible.
func (s SavingsMatrix) Candidates() []Saving {
	n := s.Size()
	if n < 3 {
		return []Saving{}
	}

	out := make([]Saving, 0, (n-1)*(n-2)/2)
	for i := 1; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Saving{I: i, J: j, Value: s.values[i][j]})
		}
	}

	slices.SortStableFunc(out, func(a, b Saving) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	return out
}

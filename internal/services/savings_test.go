package services

import (
	"reflect"
	"testing"
)

func TestComputeSavings(t *testing.T) {
	d := symmetricMatrix(4, []leg{
		{0, 1, 10}, {0, 2, 12}, {0, 3, 7},
		{1, 2, 4}, {1, 3, 9}, {2, 3, 15},
	})

	s := ComputeSavings(d)

	cases := []struct {
		i, j int
		want float64
	}{
		{1, 2, 18}, // 10 + 12 - 4
		{1, 3, 8},  // 10 + 7 - 9
		{2, 3, 4},  // 12 + 7 - 15
	}
	for _, tc := range cases {
		if got := s.At(tc.i, tc.j); got != tc.want {
			t.Errorf("At(%d, %d) = %v, want %v", tc.i, tc.j, got, tc.want)
		}
		if got := s.At(tc.j, tc.i); got != tc.want {
			t.Errorf("At(%d, %d) = %v, want %v (symmetric lookup)", tc.j, tc.i, got, tc.want)
		}
	}

	if got := s.At(2, 2); got != 0 {
		t.Errorf("At(2, 2) = %v, want 0", got)
	}
}

func TestComputeSavingsIsIdempotent(t *testing.T) {
	d := symmetricMatrix(5, []leg{
		{0, 1, 3}, {0, 2, 8}, {0, 3, 5}, {0, 4, 2},
		{1, 2, 6}, {1, 3, 1}, {1, 4, 4}, {2, 3, 7}, {2, 4, 9}, {3, 4, 2},
	})

	first := ComputeSavings(d)
	second := ComputeSavings(d)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("savings differ between runs:\n%v\n%v", first, second)
	}
}

func TestCandidatesOrder(t *testing.T) {
	d := symmetricMatrix(4, []leg{
		{0, 1, 10}, {0, 2, 12}, {0, 3, 7},
		{1, 2, 4}, {1, 3, 9}, {2, 3, 15},
	})

	got := ComputeSavings(d).Candidates()
	want := []Saving{
		{I: 1, J: 2, Value: 18},
		{I: 1, J: 3, Value: 8},
		{I: 2, J: 3, Value: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Candidates = %v, want %v", got, want)
	}
}

// Equal savings keep lexicographic (i, j) order.
func TestCandidatesTieBreak(t *testing.T) {
	d := symmetricMatrix(4, []leg{
		{0, 1, 10}, {0, 2, 10}, {0, 3, 10},
		{1, 2, 5}, {1, 3, 5}, {2, 3, 5},
	})

	got := ComputeSavings(d).Candidates()
	want := []Saving{
		{I: 1, J: 2, Value: 15},
		{I: 1, J: 3, Value: 15},
		{I: 2, J: 3, Value: 15},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Candidates = %v, want %v", got, want)
	}
}

func TestCandidatesExcludeDepot(t *testing.T) {
	d := symmetricMatrix(3, []leg{{0, 1, 1}, {0, 2, 1}, {1, 2, 50}})

	got := ComputeSavings(d).Candidates()
	if len(got) != 1 || got[0].I != 1 || got[0].J != 2 {
		t.Fatalf("Candidates = %v, want only (1, 2)", got)
	}

	// Negative savings are still candidates.
	if got[0].Value != -48 {
		t.Fatalf("Value = %v, want -48", got[0].Value)
	}

	if n := len(ComputeSavings(symmetricMatrix(2, nil)).Candidates()); n != 0 {
		t.Fatalf("single customer: %d candidates, want 0", n)
	}
}

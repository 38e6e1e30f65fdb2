package domain

import (
	"errors"
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	a := Coordinates{Lat: 0, Lng: 0}
	b := Coordinates{Lat: 0, Lng: 1}

	// One degree of longitude on the equator.
	want := EarthRadiusKm * math.Pi / 180
	if got := HaversineKm(a, b); math.Abs(got-want) > 1e-9 {
		t.Fatalf("HaversineKm = %v, want %v", got, want)
	}

	if got := HaversineKm(a, a); got != 0 {
		t.Fatalf("HaversineKm(a, a) = %v, want 0", got)
	}

	if HaversineKm(a, b) != HaversineKm(b, a) {
		t.Fatalf("HaversineKm is not symmetric")
	}
}

func TestCoordinatesValid(t *testing.T) {
	cases := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"origin", Coordinates{}, true},
		{"depot", Coordinates{Lat: 24.9197, Lng: 55.1224}, true},
		{"lat out of range", Coordinates{Lat: 91}, false},
		{"lng out of range", Coordinates{Lng: -181}, false},
		{"nan", Coordinates{Lat: math.NaN()}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	if err := (Params{VehicleCapacity: 10, MaxPickupsPerRoute: 0}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := (Params{VehicleCapacity: 0, MaxPickupsPerRoute: 1}).Validate()
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("err = %v, want ErrInvalidCapacity", err)
	}

	err = (Params{VehicleCapacity: 5, MaxPickupsPerRoute: -1}).Validate()
	if !errors.Is(err, ErrInvalidMaxPickups) {
		t.Fatalf("err = %v, want ErrInvalidMaxPickups", err)
	}
}

func TestRouteLoads(t *testing.T) {
	events := []Event{
		NewDepot(Coordinates{}, 0),
		{ID: "D1", Role: RoleDelivery, Volume: 4},
		{ID: "D2", Role: RoleDelivery, Volume: 3},
		{ID: "P1", Role: RolePickup, Volume: 2},
	}
	r := Route{0, 1, 3, 2, 0}

	if got := r.DeliveryLoad(events); got != 7 {
		t.Fatalf("DeliveryLoad = %v, want 7", got)
	}
	if got := r.PickupCount(events); got != 1 {
		t.Fatalf("PickupCount = %d, want 1", got)
	}
}

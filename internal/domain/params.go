package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidCapacity   = errors.New("vehicle capacity must be a positive number")
	ErrInvalidMaxPickups = errors.New("max pickups per route must not be negative")
	ErrDepotVolume       = errors.New("depot volume must be zero")
	ErrInvalidVolume     = errors.New("volume must be a non-negative number")
	ErrInvalidPosition   = errors.New("coordinates out of range")
)

// Vehicle constraints applied to every route of a plan.
type Params struct {
	VehicleCapacity    float64
	MaxPickupsPerRoute int
}

func (p Params) Validate() error {
	if math.IsNaN(p.VehicleCapacity) || math.IsInf(p.VehicleCapacity, 0) || p.VehicleCapacity <= 0 {
		return fmt.Errorf("validate params: capacity=%v: %w", p.VehicleCapacity, ErrInvalidCapacity)
	}
	if p.MaxPickupsPerRoute < 0 {
		return fmt.Errorf("validate params: max_pickups=%d: %w", p.MaxPickupsPerRoute, ErrInvalidMaxPickups)
	}
	return nil
}

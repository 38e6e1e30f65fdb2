package dto

import "time"

// Omitted or zero capacity and seed fall back to the server defaults. A nil
// max_pickups_per_route does too, so that 0 stays expressible.
type CreatePlanRequest struct {
	VehicleCapacity    float64 `json:"vehicle_capacity"`
	MaxPickupsPerRoute *int    `json:"max_pickups_per_route"`
	Seed               uint64  `json:"seed"`
}

type StepResponse struct {
	ID     string  `json:"id"`
	Role   string  `json:"role"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Volume float64 `json:"volume"`
	// Vehicle load after the stop is served.
	LoadAfter float64 `json:"load_after"`
}

type RouteResponse struct {
	Vehicle          int            `json:"vehicle"`
	DurationSeconds  float64        `json:"duration_seconds"`
	DeliveriesVolume float64        `json:"deliveries_volume"`
	PickupsVolume    float64        `json:"pickups_volume"`
	Geometry         string         `json:"geometry,omitempty"`
	Steps            []StepResponse `json:"steps"`
}

type PlanResponse struct {
	ID                 string          `json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	VehicleCapacity    float64         `json:"vehicle_capacity"`
	MaxPickupsPerRoute int             `json:"max_pickups_per_route"`
	Routes             []RouteResponse `json:"routes"`
}

package repositories

import (
	"mixed-route-service/internal/domain"
	"time"
)

// Stored form of a plan, independent of the API DTOs.
type planRecord struct {
	ID                 string        `json:"id"`
	CreatedAt          time.Time     `json:"created_at"`
	VehicleCapacity    float64       `json:"vehicle_capacity"`
	MaxPickupsPerRoute int           `json:"max_pickups_per_route"`
	Routes             []routeRecord `json:"routes"`
}

type routeRecord struct {
	Steps            []stepRecord `json:"steps"`
	DurationSeconds  float64      `json:"duration_seconds"`
	DeliveriesVolume float64      `json:"deliveries_volume"`
	PickupsVolume    float64      `json:"pickups_volume"`
	Geometry         string       `json:"geometry,omitempty"`
}

type stepRecord struct {
	ID     string  `json:"id"`
	Role   string  `json:"role"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Volume float64 `json:"volume"`
}

func toRecord(p *domain.Plan) planRecord {
	rec := planRecord{
		ID:                 p.ID,
		CreatedAt:          p.CreatedAt,
		VehicleCapacity:    p.Params.VehicleCapacity,
		MaxPickupsPerRoute: p.Params.MaxPickupsPerRoute,
		Routes:             make([]routeRecord, 0, len(p.Routes)),
	}

	for _, r := range p.Routes {
		rr := routeRecord{
			Steps:            make([]stepRecord, 0, len(r.Steps)),
			DurationSeconds:  r.DurationSeconds,
			DeliveriesVolume: r.DeliveriesVolume,
			PickupsVolume:    r.PickupsVolume,
			Geometry:         r.Geometry,
		}
		for _, e := range r.Steps {
			rr.Steps = append(rr.Steps, stepRecord{
				ID:     e.ID,
				Role:   e.Role.String(),
				Lat:    e.Position.Lat,
				Lng:    e.Position.Lng,
				Volume: e.Volume,
			})
		}
		rec.Routes = append(rec.Routes, rr)
	}

	return rec
}

func fromRecord(rec planRecord) *domain.Plan {
	p := &domain.Plan{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Params: domain.Params{
			VehicleCapacity:    rec.VehicleCapacity,
			MaxPickupsPerRoute: rec.MaxPickupsPerRoute,
		},
		Routes: make([]domain.RouteSummary, 0, len(rec.Routes)),
	}

	for _, rr := range rec.Routes {
		r := domain.RouteSummary{
			Steps:            make([]domain.Event, 0, len(rr.Steps)),
			DurationSeconds:  rr.DurationSeconds,
			DeliveriesVolume: rr.DeliveriesVolume,
			PickupsVolume:    rr.PickupsVolume,
			Geometry:         rr.Geometry,
		}
		for _, s := range rr.Steps {
			r.Steps = append(r.Steps, domain.Event{
				ID:       s.ID,
				Role:     parseRole(s.Role),
				Position: domain.Coordinates{Lat: s.Lat, Lng: s.Lng},
				Volume:   s.Volume,
			})
		}
		p.Routes = append(p.Routes, r)
	}

	return p
}

func parseRole(s string) domain.Role {
	switch s {
	case domain.RolePickup.String():
		return domain.RolePickup
	case domain.RoleDelivery.String():
		return domain.RoleDelivery
	default:
		return domain.RoleDepot
	}
}

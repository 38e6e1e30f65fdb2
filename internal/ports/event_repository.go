package ports

import (
	"context"
	"mixed-route-service/internal/domain"
)

// Port: a boundary for retrieving raw demand records from a data source.
type EventRepository interface {
	// Retrieve all delivery and pickup demands available for routing.
	ListDemands(ctx context.Context) (deliveries []domain.Demand, pickups []domain.Demand, err error)
}

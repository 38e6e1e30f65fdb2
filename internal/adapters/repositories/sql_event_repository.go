package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
)

const (
	kindDelivery = "delivery"
	kindPickup   = "pickup"
)

// SQL-backed implementation of the EventRepository port.
type SQLEventRepository struct {
	DB *sql.DB
}

func NewSQLEventRepository(db *sql.DB) *SQLEventRepository {
	return &SQLEventRepository{DB: db}
}

// Load all demands, keeping insertion order within each kind.
func (r *SQLEventRepository) ListDemands(ctx context.Context) (_ []domain.Demand, _ []domain.Demand, err error) {
	defer obs.Time(ctx, "repo.demands.List")(&err)

	if r.DB == nil {
		return nil, nil, errors.New("list demands: db is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT kind, lat, lng, volume
	FROM demands
	ORDER BY id;
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("list demands: query demands table: %w", err)
	}
	defer rows.Close()

	var deliveries, pickups []domain.Demand
	for rows.Next() {
		var kind string
		var d domain.Demand
		if err := rows.Scan(&kind, &d.Position.Lat, &d.Position.Lng, &d.Volume); err != nil {
			return nil, nil, fmt.Errorf("list demands: scan row: %w", err)
		}

		switch kind {
		case kindDelivery:
			deliveries = append(deliveries, d)
		case kindPickup:
			pickups = append(pickups, d)
		default:
			return nil, nil, fmt.Errorf("list demands: unknown kind %q", kind)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list demands: iterate rows: %w", err)
	}

	return deliveries, pickups, nil
}

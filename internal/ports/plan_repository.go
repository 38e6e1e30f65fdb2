package ports

import (
	"context"
	"errors"
	"mixed-route-service/internal/domain"
)

var ErrPlanNotFound = errors.New("plan not found")

// Port: persistence for computed plans.
type PlanRepository interface {
	SavePlan(ctx context.Context, plan *domain.Plan) error
	// Return ErrPlanNotFound when no plan has the given id.
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
}

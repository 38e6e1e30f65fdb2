package repositories

import (
	"context"
	"errors"
	"fmt"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/ports"
	"strings"
	"sync"
)

// In-process PlanRepository. Plans round-trip through the stored record form so
// callers cannot mutate what was saved.
type MemoryPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]planRecord
}

func NewMemoryPlanRepository() *MemoryPlanRepository {
	return &MemoryPlanRepository{plans: make(map[string]planRecord)}
}

func (r *MemoryPlanRepository) SavePlan(_ context.Context, plan *domain.Plan) error {
	if plan == nil || strings.TrimSpace(plan.ID) == "" {
		return errors.New("save plan: plan id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.ID]; ok {
		return fmt.Errorf("save plan id=%s: already exists", plan.ID)
	}
	r.plans[plan.ID] = toRecord(plan)
	return nil
}

func (r *MemoryPlanRepository) GetPlan(_ context.Context, id string) (*domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("get plan id=%s: %w", id, ports.ErrPlanNotFound)
	}
	return fromRecord(rec), nil
}

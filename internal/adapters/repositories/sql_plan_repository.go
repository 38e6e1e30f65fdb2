package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"mixed-route-service/internal/ports"
	"strings"
)

// SQL-backed implementation of the PlanRepository port. Plans are stored as JSONB.
type SQLPlanRepository struct {
	DB *sql.DB
}

func NewSQLPlanRepository(db *sql.DB) *SQLPlanRepository {
	return &SQLPlanRepository{DB: db}
}

func (r *SQLPlanRepository) SavePlan(ctx context.Context, plan *domain.Plan) (err error) {
	defer obs.Time(ctx, "repo.plans.Save")(&err)

	if r.DB == nil {
		return errors.New("save plan: db is nil")
	}
	if plan == nil || strings.TrimSpace(plan.ID) == "" {
		return errors.New("save plan: plan id must not be empty")
	}

	body, err := json.Marshal(toRecord(plan))
	if err != nil {
		return fmt.Errorf("save plan: encode: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
	INSERT INTO plans (id, created_at, body)
	VALUES ($1, $2, $3);
	`, plan.ID, plan.CreatedAt, body)
	if err != nil {
		return fmt.Errorf("save plan id=%s: %w", plan.ID, err)
	}

	return nil
}

func (r *SQLPlanRepository) GetPlan(ctx context.Context, id string) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "repo.plans.Get")(&err)

	if r.DB == nil {
		return nil, errors.New("get plan: db is nil")
	}

	var body []byte
	err = r.DB.QueryRowContext(ctx, `SELECT body FROM plans WHERE id::text = $1;`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan id=%s: %w", id, ports.ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan id=%s: %w", id, err)
	}

	var rec planRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("get plan id=%s: decode: %w", id, err)
	}

	return fromRecord(rec), nil
}

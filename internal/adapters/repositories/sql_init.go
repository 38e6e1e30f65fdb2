package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mixed-route-service/internal/domain"
)

// Initialize the postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDemandsQuery := `
	CREATE TABLE IF NOT EXISTS demands (
		id BIGSERIAL PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('delivery', 'pickup')),
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		volume DOUBLE PRECISION NOT NULL CHECK (volume >= 0)
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		body JSONB NOT NULL
	);
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS duration_matrix_cache (
        cache_key TEXT PRIMARY KEY,
        durations JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_demands_kind
    ON demands(kind);
	`

	statements := []string{
		createDemandsQuery,
		createPlansQuery,
		createMatrixCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the demands table contents with the rows of two CSV files.
func SeedFromCSV(ctx context.Context, db *sql.DB, deliveriesPath, pickupsPath string) error {
	if db == nil {
		return errors.New("seed demands: DB is nil")
	}

	deliveries, err := ReadDemandsFile(deliveriesPath)
	if err != nil {
		return fmt.Errorf("seed demands: %w", err)
	}
	pickups, err := ReadDemandsFile(pickupsPath)
	if err != nil {
		return fmt.Errorf("seed demands: %w", err)
	}

	return SeedDemands(ctx, db, deliveries, pickups)
}

// SeedDemands replaces the demands table contents.
func SeedDemands(ctx context.Context, db *sql.DB, deliveries, pickups []domain.Demand) error {
	if err := validateSeed(deliveries); err != nil {
		return fmt.Errorf("seed demands: deliveries: %w", err)
	}
	if err := validateSeed(pickups); err != nil {
		return fmt.Errorf("seed demands: pickups: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed demands: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM demands;`); err != nil {
		return fmt.Errorf("seed demands: clear table: %w", err)
	}

	query := `
	INSERT INTO demands (
		kind,
		lat,
		lng,
		volume
	)
	VALUES ($1, $2, $3, $4);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed demands: prepare insert: %w", err)
	}
	defer stmt.Close()

	insert := func(kind string, rows []domain.Demand) error {
		for i, d := range rows {
			if _, err := stmt.ExecContext(ctx, kind, d.Position.Lat, d.Position.Lng, d.Volume); err != nil {
				return fmt.Errorf("seed demands: insert %s #%d: %w", kind, i+1, err)
			}
		}
		return nil
	}

	if err := insert(kindDelivery, deliveries); err != nil {
		return err
	}
	if err := insert(kindPickup, pickups); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed demands: commit tx: %w", err)
	}

	return nil
}

func validateSeed(rows []domain.Demand) error {
	for i, d := range rows {
		if !d.Position.Valid() {
			return fmt.Errorf("row %d: %w", i+1, domain.ErrInvalidPosition)
		}
		if d.Volume < 0 {
			return fmt.Errorf("row %d: %w", i+1, domain.ErrInvalidVolume)
		}
	}
	return nil
}

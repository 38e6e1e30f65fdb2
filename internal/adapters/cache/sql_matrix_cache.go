package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mixed-route-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLMatrixCache is a SQL-backed cache for duration matrices.
// Entries older than TTL are treated as misses; a zero TTL keeps entries forever.
type SQLMatrixCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLMatrixCache(db *sql.DB, ttl time.Duration) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db, TTL: ttl}
}

// Fetch a cached matrix.
func (s *SQLMatrixCache) Get(ctx context.Context, key string) (_ [][]*float64, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	q := `
	SELECT durations, created_at
    FROM duration_matrix_cache
    WHERE cache_key = $1;
	`

	var raw []byte
	var createdAt time.Time
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: query duration_matrix_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(createdAt) > s.TTL {
		return nil, false, nil
	}

	var m [][]*float64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("get matrix cache: decode durations: %w", err)
	}

	return m, true, nil
}

// Store a matrix, replacing any previous entry for the key.
func (s *SQLMatrixCache) Put(ctx context.Context, key string, matrix [][]*float64) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}

	raw, err := json.Marshal(matrix)
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode durations: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO duration_matrix_cache (cache_key, durations, created_at)
    VALUES ($1, $2, now())
	ON CONFLICT (cache_key) DO UPDATE
	SET durations = EXCLUDED.durations,
		created_at = EXCLUDED.created_at;
	`, key, raw)
	if err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}

	return nil
}

package ports

import "context"

// Cache for whole duration matrices keyed by an opaque string.
// Implementations report a miss as (nil, false, nil).
type MatrixCache interface {
	Get(ctx context.Context, key string) ([][]*float64, bool, error)
	Put(ctx context.Context, key string, matrix [][]*float64) error
}

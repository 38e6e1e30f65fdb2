package distance

import (
	"context"
	"fmt"
	"mixed-route-service/internal/domain"

	"github.com/twpayne/go-polyline"
)

// MockProvider serves a fixed duration matrix and draws straight lines between stops.
type MockProvider struct {
	matrix [][]*float64
}

// NewMockProvider returns a provider for a fixed matrix. A nil matrix makes every
// pair unroutable, so callers fall back to straight-line estimates.
func NewMockProvider(matrix [][]*float64) *MockProvider {
	return &MockProvider{matrix: matrix}
}

func (p *MockProvider) GetDurations(ctx context.Context, points []domain.Coordinates) ([][]*float64, error) {
	if p.matrix == nil {
		out := make([][]*float64, len(points))
		for i := range out {
			out[i] = make([]*float64, len(points))
		}
		return out, nil
	}

	if len(p.matrix) != len(points) {
		return nil, fmt.Errorf("mock matrix covers %d points, got %d", len(p.matrix), len(points))
	}
	return p.matrix, nil
}

func (p *MockProvider) GetGeometry(ctx context.Context, points []domain.Coordinates) (string, error) {
	coords := make([][]float64, len(points))
	for i, pt := range points {
		coords[i] = []float64{pt.Lat, pt.Lng}
	}
	return string(polyline.EncodeCoords(coords)), nil
}

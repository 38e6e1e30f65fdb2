package distance

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultOSRMURL = "https://router.project-osrm.org"
	DefaultProfile = "driving"
)

// OSRMProvider implements RoutingProvider using an OSRM server.
//
// It coordinates:
//   - Duration matrices via the table service
//   - Route geometry via the route service
//   - An optional matrix cache consulted before the table call
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type OSRMProvider struct {
	session *http.Client
	baseURL string
	profile string
	cache   ports.MatrixCache
}

type Option func(*OSRMProvider)

// WithCache stores and reuses duration matrices.
func WithCache(c ports.MatrixCache) Option { return func(o *OSRMProvider) { o.cache = c } }

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(c *http.Client) Option { return func(o *OSRMProvider) { o.session = c } }

// WithProfile selects the OSRM routing profile.
func WithProfile(p string) Option { return func(o *OSRMProvider) { o.profile = p } }

func NewOSRMProvider(baseURL string, opts ...Option) (*OSRMProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	provider := &OSRMProvider{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		profile: DefaultProfile,
	}
	for _, opt := range opts {
		opt(provider)
	}
	if provider.profile == "" {
		return nil, errors.New("OSRM profile is empty")
	}

	return provider, nil
}

// encodeCoordinates renders points as OSRM "lng,lat;lng,lat" path segments.
func encodeCoordinates(points []domain.Coordinates) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.FormatFloat(p.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
	}
	return strings.Join(parts, ";")
}

// matrixKey identifies a matrix by profile and the ordered point list.
func (o *OSRMProvider) matrixKey(points []domain.Coordinates) string {
	h := sha256.New()
	h.Write([]byte(o.profile))
	for _, p := range points {
		h.Write([]byte{'|'})
		h.Write([]byte(p.Key()))
	}
	return "durations:" + hex.EncodeToString(h.Sum(nil))
}

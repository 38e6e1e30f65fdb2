package distance

import (
	"context"
	"fmt"
	"mixed-route-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

var testPoints = []domain.Coordinates{
	{Lat: 24.9197, Lng: 55.1224},
	{Lat: 25.0100, Lng: 55.2000},
	{Lat: 25.0500, Lng: 55.3000},
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][][]*float64
	puts int
}

func (c *memoryCache) Get(ctx context.Context, key string) ([][]*float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.data[key]
	return m, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, m [][]*float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][][]*float64{}
	}
	c.data[key] = m
	c.puts++
	return nil
}

func TestGetDurations(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/table/v1/driving/55.1224,24.9197;55.2,25.01;55.3,25.05", r.URL.Path)
		require.Equal(t, "duration", r.URL.Query().Get("annotations"))
		fmt.Fprint(w, `{"code":"Ok","durations":[[0,100,200],[101,0,null],[201,150,0]]}`)
	}))
	defer srv.Close()

	cache := &memoryCache{}
	p, err := NewOSRMProvider(srv.URL, WithCache(cache))
	require.NoError(t, err)

	m, err := p.GetDurations(context.Background(), testPoints)
	require.NoError(t, err)
	require.Len(t, m, 3)
	require.Equal(t, 100.0, *m[0][1])
	require.Nil(t, m[1][2])
	require.Equal(t, 150.0, *m[2][1])
	require.Equal(t, 1, cache.puts)

	// Second call is served from the cache.
	_, err = p.GetDurations(context.Background(), testPoints)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetDurationsRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"code":"Ok","durations":[[0,1],[1,0]]}`)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(srv.URL)
	require.NoError(t, err)

	m, err := p.GetDurations(context.Background(), testPoints[:2])
	require.NoError(t, err)
	require.Equal(t, 1.0, *m[0][1])
	require.Equal(t, int32(2), calls.Load())
}

func TestGetDurationsFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"service code", http.StatusBadRequest, `{"code":"InvalidQuery","message":"Too many coordinates"}`, "InvalidQuery"},
		{"short matrix", http.StatusOK, `{"code":"Ok","durations":[[0,1]]}`, "does not match"},
		{"not found", http.StatusNotFound, `nope`, "Code 404"},
		{"bad json", http.StatusOK, `{`, "decode table response"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			p, err := NewOSRMProvider(srv.URL)
			require.NoError(t, err)

			_, err = p.GetDurations(context.Background(), testPoints[:2])
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGetGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/driving/"))
		require.Equal(t, "full", r.URL.Query().Get("overview"))
		fmt.Fprint(w, `{"code":"Ok","routes":[{"geometry":"_p~iF~ps|U_ulLnnqC","duration":12.5}]}`)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(srv.URL + "/")
	require.NoError(t, err)

	geom, err := p.GetGeometry(context.Background(), testPoints)
	require.NoError(t, err)
	require.Equal(t, "_p~iF~ps|U_ulLnnqC", geom)

	_, err = p.GetGeometry(context.Background(), testPoints[:1])
	require.Error(t, err)
}

func TestNewOSRMProviderValidation(t *testing.T) {
	_, err := NewOSRMProvider("  ")
	require.Error(t, err)

	_, err = NewOSRMProvider(DefaultOSRMURL, WithProfile(""))
	require.Error(t, err)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider(nil)

	m, err := p.GetDurations(context.Background(), testPoints)
	require.NoError(t, err)
	require.Len(t, m, 3)
	require.Nil(t, m[0][1])

	geom, err := p.GetGeometry(context.Background(), testPoints)
	require.NoError(t, err)

	coords, _, err := polyline.DecodeCoords([]byte(geom))
	require.NoError(t, err)
	require.Len(t, coords, 3)
	require.InDelta(t, testPoints[1].Lat, coords[1][0], 1e-5)
	require.InDelta(t, testPoints[1].Lng, coords[1][1], 1e-5)
}

package repositories

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadDemands(t *testing.T) {
	got, err := ReadDemands(strings.NewReader("25.1,55.2,120\n25.3, 55.4, 0.5\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 25.1, got[0].Position.Lat)
	assert.Equal(t, 55.2, got[0].Position.Lng)
	assert.Equal(t, 120.0, got[0].Volume)
	assert.Equal(t, 0.5, got[1].Volume)
}

func TestReadDemandsEmpty(t *testing.T) {
	got, err := ReadDemands(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadDemandsRejectsMalformedRows(t *testing.T) {
	cases := map[string]string{
		"non numeric":  "25.1,55.2,lots\n",
		"header":       "lat,lng,volume\n25.1,55.2,1\n",
		"short row":    "25.1,55.2\n",
		"extra column": "25.1,55.2,1,9\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDemands(strings.NewReader(body))
			require.Error(t, err)
		})
	}
}

func TestCSVEventRepositoryListDemands(t *testing.T) {
	deliveries := writeFile(t, "deliveries.csv", "25.0,55.0,10\n25.1,55.1,20\n")
	pickups := writeFile(t, "pickups.csv", "25.2,55.2,5\n")

	repo := NewCSVEventRepository(deliveries, pickups)
	d, p, err := repo.ListDemands(context.Background())
	require.NoError(t, err)
	assert.Len(t, d, 2)
	assert.Len(t, p, 1)
	assert.Equal(t, 5.0, p[0].Volume)
}

func TestCSVEventRepositoryMissingFile(t *testing.T) {
	deliveries := writeFile(t, "deliveries.csv", "25.0,55.0,10\n")

	repo := NewCSVEventRepository(deliveries, filepath.Join(t.TempDir(), "missing.csv"))
	_, _, err := repo.ListDemands(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pickups")
}

package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mixed-route-service/internal/domain"
	"os"
	"strconv"
	"strings"
)

// CSVEventRepository reads demands from two headerless files of lat,lng,volume rows.
type CSVEventRepository struct {
	DeliveriesPath string
	PickupsPath    string
}

func NewCSVEventRepository(deliveriesPath, pickupsPath string) *CSVEventRepository {
	return &CSVEventRepository{DeliveriesPath: deliveriesPath, PickupsPath: pickupsPath}
}

func (r *CSVEventRepository) ListDemands(ctx context.Context) ([]domain.Demand, []domain.Demand, error) {
	deliveries, err := ReadDemandsFile(r.DeliveriesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("list demands: deliveries: %w", err)
	}

	pickups, err := ReadDemandsFile(r.PickupsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("list demands: pickups: %w", err)
	}

	return deliveries, pickups, nil
}

// ReadDemandsFile parses a demand CSV from disk.
func ReadDemandsFile(path string) ([]domain.Demand, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("read demands: path must not be empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read demands: open %q: %w", path, err)
	}
	defer f.Close()

	demands, err := ReadDemands(f)
	if err != nil {
		return nil, fmt.Errorf("read demands %q: %w", path, err)
	}

	return demands, nil
}

// ReadDemands parses lat,lng,volume rows. Blank lines are skipped; any malformed
// row fails the whole read.
func ReadDemands(src io.Reader) ([]domain.Demand, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	var demands []domain.Demand
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}

		d, err := parseDemand(rec)
		if err != nil {
			return nil, fmt.Errorf("parse csv: row %d: %w", line, err)
		}
		demands = append(demands, d)
	}

	return demands, nil
}

func parseDemand(rec []string) (domain.Demand, error) {
	var vals [3]float64
	for i, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return domain.Demand{}, fmt.Errorf("field %d %q is not a number", i+1, field)
		}
		vals[i] = v
	}

	return domain.Demand{
		Position: domain.Coordinates{Lat: vals[0], Lng: vals[1]},
		Volume:   vals[2],
	}, nil
}

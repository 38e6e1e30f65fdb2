package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mixed-route-service/internal/adapters/distance"
	"mixed-route-service/internal/adapters/render"
	"mixed-route-service/internal/adapters/repositories"
	"mixed-route-service/internal/config"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/ports"
	"mixed-route-service/internal/services"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// planner runs one solve over the demand CSVs, prints the per-vehicle report
// and writes a KML file for map viewers.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	deliveries := flag.String("deliveries", cfg.DeliveriesCSV, "deliveries CSV (lat,lng,volume)")
	pickups := flag.String("pickups", cfg.PickupsCSV, "pickups CSV (lat,lng,volume)")
	resultDir := flag.String("out", cfg.ResultDir, "directory for the KML output")
	seed := flag.Uint64("seed", cfg.ShuffleSeed, "shuffle seed (0 draws one from the clock)")
	noShuffle := flag.Bool("no-shuffle", false, "keep input order")
	offline := flag.Bool("offline", false, "skip the routing service and use straight-line durations")
	flag.Parse()

	if err := run(cfg, *deliveries, *pickups, *resultDir, *seed, !*noShuffle, *offline); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config, deliveries, pickups, resultDir string, seed uint64, shuffle, offline bool) error {
	ctx := context.Background()

	var durations ports.DurationMatrixProvider
	var geometry ports.GeometryProvider
	if offline {
		durations = distance.NewMockProvider(nil)
	} else {
		provider, err := distance.NewOSRMProvider(cfg.OSRMURL, distance.WithProfile(cfg.OSRMProfile))
		if err != nil {
			return err
		}
		durations, geometry = provider, provider
	}

	req := services.PlanRequest{
		Depot:     domain.NewDepot(cfg.Depot(), cfg.DepotVolume),
		Params:    cfg.Params(),
		SpeedKmh:  cfg.VehicleSpeedKmh,
		MaxPoints: cfg.MaxPoints,
		Shuffle:   shuffle,
		Seed:      seed,
	}

	start := time.Now()
	plan, err := services.PlanRoutes(ctx, req, repositories.NewCSVEventRepository(deliveries, pickups), durations, geometry)
	if err != nil {
		return err
	}
	log.Printf("time running algorithm: %s", time.Since(start))

	if err := render.ConsoleReport(os.Stdout, plan.Routes); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	path, err := writeKML(resultDir, plan)
	if err != nil {
		return err
	}
	log.Printf("wrote %s routes=%d", path, len(plan.Routes))

	return nil
}

func writeKML(dir string, plan *domain.Plan) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write kml: create %q: %w", dir, err)
	}

	stamp := strings.ReplaceAll(plan.CreatedAt.Format("2006-01-02T15-04-05.000000"), ".", "-")
	path := filepath.Join(dir, "routes_"+stamp+".kml")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write kml: %w", err)
	}

	if err := render.NewKMLWriter("Mixed delivery and pickup routes").Write(f, plan.Routes); err != nil {
		_ = f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write kml: close %q: %w", path, err)
	}

	return path, nil
}

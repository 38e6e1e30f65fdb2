package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"mixed-route-service/internal/adapters/cache"
	"mixed-route-service/internal/adapters/distance"
	"mixed-route-service/internal/adapters/repositories"
	"mixed-route-service/internal/api"
	"mixed-route-service/internal/config"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/db"
	"mixed-route-service/internal/ports"
	"mixed-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (postgres or CSV, OSRM, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{
		Defaults: services.PlanRequest{
			Depot:     domain.NewDepot(cfg.Depot(), cfg.DepotVolume),
			Params:    cfg.Params(),
			SpeedKmh:  cfg.VehicleSpeedKmh,
			MaxPoints: cfg.MaxPoints,
			Shuffle:   true,
			Seed:      cfg.ShuffleSeed,
		},
		HealthChecks: map[string]func(context.Context) error{},
	}
	if cfg.PlanRateLimit > 0 {
		deps.PlanLimiter = rate.NewLimiter(rate.Limit(cfg.PlanRateLimit), cfg.PlanRateBurst)
	}

	var matrixCache ports.MatrixCache

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal(err)
		}

		deps.Events = repositories.NewSQLEventRepository(conn)
		deps.Plans = repositories.NewSQLPlanRepository(conn)
		deps.HealthChecks["postgres"] = pingDB(conn)
		matrixCache = cache.NewSQLMatrixCache(conn, cfg.CacheTTL)
	} else {
		// Local runs without a database read the demand CSVs and keep plans in memory.
		log.Printf("DATABASE_URL not set, using csv deliveries=%s pickups=%s", cfg.DeliveriesCSV, cfg.PickupsCSV)
		deps.Events = repositories.NewCSVEventRepository(cfg.DeliveriesCSV, cfg.PickupsCSV)
		deps.Plans = repositories.NewMemoryPlanRepository()
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisMatrixCacheFromURL(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Fatal(err)
		}
		defer rc.Close()
		matrixCache = rc
	}

	opts := []distance.Option{distance.WithProfile(cfg.OSRMProfile)}
	if matrixCache != nil {
		opts = append(opts, distance.WithCache(matrixCache))
	}
	provider, err := distance.NewOSRMProvider(cfg.OSRMURL, opts...)
	if err != nil {
		log.Fatal(err)
	}
	deps.Durations = provider
	deps.Geometry = provider

	// Timeouts are tuned for cold-cache planning (external routing latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s osrm=%s profile=%s", cfg.Port, cfg.OSRMURL, cfg.OSRMProfile)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func pingDB(conn *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error { return conn.PingContext(ctx) }
}

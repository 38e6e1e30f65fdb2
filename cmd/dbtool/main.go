package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"mixed-route-service/internal/adapters/repositories"
	"mixed-route-service/internal/config"
	"mixed-route-service/internal/platform/db"
	"os"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	seed := flag.Bool("seed", true, "replace the demands table with the CSV contents")
	deliveries := flag.String("deliveries", cfg.DeliveriesCSV, "deliveries CSV (lat,lng,volume)")
	pickups := flag.String("pickups", cfg.PickupsCSV, "pickups CSV (lat,lng,volume)")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, *seed, *deliveries, *pickups); err != nil {
		log.Print(err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seed bool, deliveries, pickups string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if !seed {
		return nil
	}

	log.Printf("Seeding database deliveries=%s pickups=%s...", deliveries, pickups)
	if err := repositories.SeedFromCSV(ctx, conn, deliveries, pickups); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}

package config

import (
	"errors"
	"fmt"
	"log"
	"mixed-route-service/internal/domain"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime option shared by the commands.
// Precedence: environment, then the CONFIG_FILE overlay, then defaults.
type Config struct {
	VehicleCapacity    float64       `yaml:"vehicle_capacity"`
	MaxPickupsPerRoute int           `yaml:"max_pickups_per_route"`
	DepotLat           float64       `yaml:"depot_lat"`
	DepotLng           float64       `yaml:"depot_lng"`
	DepotVolume        float64       `yaml:"depot_volume"`
	VehicleSpeedKmh    float64       `yaml:"vehicle_speed_kmh"`
	OSRMURL            string        `yaml:"osrm_url"`
	OSRMProfile        string        `yaml:"osrm_profile"`
	MaxPoints          int           `yaml:"max_points"`
	ShuffleSeed        uint64        `yaml:"shuffle_seed"`
	DeliveriesCSV      string        `yaml:"deliveries_csv"`
	PickupsCSV         string        `yaml:"pickups_csv"`
	ResultDir          string        `yaml:"result_dir"`
	DatabaseURL        string        `yaml:"database_url"`
	RedisURL           string        `yaml:"redis_url"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
	Port               string        `yaml:"port"`
	PlanRateLimit      float64       `yaml:"plan_rate_limit"`
	PlanRateBurst      int           `yaml:"plan_rate_burst"`
}

func Defaults() Config {
	return Config{
		VehicleCapacity:    3_200_000,
		MaxPickupsPerRoute: 1,
		DepotLat:           24.919762580554334,
		DepotLng:           55.122473893638016,
		VehicleSpeedKmh:    30,
		OSRMURL:            "https://router.project-osrm.org",
		OSRMProfile:        "driving",
		MaxPoints:          100,
		DeliveriesCSV:      "data/deliveries.csv",
		PickupsCSV:         "data/pickups.csv",
		ResultDir:          "result",
		CacheTTL:           24 * time.Hour,
		Port:               "8080",
		PlanRateLimit:      1,
		PlanRateBurst:      5,
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present), the optional CONFIG_FILE overlay and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Defaults()

	if path := Get("CONFIG_FILE", ""); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error
	float := func(key string, dst *float64) {
		if v := Get(key, ""); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: not a number", key, v))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v := Get(key, ""); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	str := func(key string, dst *string) {
		*dst = Get(key, *dst)
	}

	float("VEHICLE_CAPACITY", &cfg.VehicleCapacity)
	integer("MAX_PICKUPS_PER_ROUTE", &cfg.MaxPickupsPerRoute)
	float("DEPOT_LAT", &cfg.DepotLat)
	float("DEPOT_LNG", &cfg.DepotLng)
	float("DEPOT_VOLUME", &cfg.DepotVolume)
	float("VEHICLE_SPEED_KMH", &cfg.VehicleSpeedKmh)
	str("OSRM_URL", &cfg.OSRMURL)
	str("OSRM_PROFILE", &cfg.OSRMProfile)
	integer("MAX_POINTS", &cfg.MaxPoints)
	str("DELIVERIES_CSV", &cfg.DeliveriesCSV)
	str("PICKUPS_CSV", &cfg.PickupsCSV)
	str("RESULT_DIR", &cfg.ResultDir)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("REDIS_URL", &cfg.RedisURL)
	str("PORT", &cfg.Port)
	float("PLAN_RATE_LIMIT", &cfg.PlanRateLimit)
	integer("PLAN_RATE_BURST", &cfg.PlanRateBurst)

	if v := Get("SHUFFLE_SEED", ""); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SHUFFLE_SEED=%q: not an unsigned integer", v))
		} else {
			cfg.ShuffleSeed = n
		}
	}
	if v := Get("CACHE_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("CACHE_TTL=%q: %w", v, err))
		} else {
			cfg.CacheTTL = d
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.DepotVolume != 0 {
		return fmt.Errorf("load config: depot_volume=%v: %w", c.DepotVolume, domain.ErrDepotVolume)
	}
	if !c.Depot().Valid() {
		return fmt.Errorf("load config: depot: %w", domain.ErrInvalidPosition)
	}
	if c.VehicleSpeedKmh <= 0 {
		return fmt.Errorf("load config: vehicle_speed_kmh=%v: must be positive", c.VehicleSpeedKmh)
	}
	if c.MaxPoints < 2 {
		return fmt.Errorf("load config: max_points=%d: must be at least 2", c.MaxPoints)
	}
	return nil
}

func (c Config) Params() domain.Params {
	return domain.Params{VehicleCapacity: c.VehicleCapacity, MaxPickupsPerRoute: c.MaxPickupsPerRoute}
}

func (c Config) Depot() domain.Coordinates {
	return domain.Coordinates{Lat: c.DepotLat, Lng: c.DepotLng}
}

// README: Config loader with env defaults for HTTP, stores, matching speeds and fares.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type MatchingConfig struct {
	RadiusM             float64
	PickupSpeedMPerMin  float64
	TransitSpeedMPerMin float64
	DirectSpeedMPerMin  float64
	ExcludedStatuses    []string
	RouteCacheTTL       time.Duration
}

type FareConfig struct {
	Currency         string
	RouteBase        int64
	RoutePerKm       int64
	RouteMaxVariable int64
	TaxiBase         int64
	TaxiPerKm        int64
	TaxiMaxVariable  int64
}

type Config struct {
	Env  string
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
	}
	// SnapshotFile, when set, serves routes and vehicles from a YAML fixture
	// instead of Postgres and Redis.
	SnapshotFile string
	Maps         struct {
		APIKey string
		Region string
	}
	Matching MatchingConfig
	Fares    FareConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.Env = envOrDefault("SMARTRIDE_ENV", "development")
	cfg.HTTP.Addr = envOrDefault("SMARTRIDE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("SMARTRIDE_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("SMARTRIDE_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = envOrDefault("SMARTRIDE_REDIS_PASSWORD", "")
	cfg.SnapshotFile = envOrDefault("SMARTRIDE_SNAPSHOT_FILE", "")
	cfg.Maps.APIKey = envOrDefault("SMARTRIDE_MAPS_API_KEY", "")
	cfg.Maps.Region = envOrDefault("SMARTRIDE_MAPS_REGION", "bw")

	cfg.Matching.RadiusM = envOrDefaultFloat("SMARTRIDE_MATCH_RADIUS_M", 200)
	cfg.Matching.PickupSpeedMPerMin = envOrDefaultFloat("SMARTRIDE_PICKUP_SPEED_M_PER_MIN", 200)
	cfg.Matching.TransitSpeedMPerMin = envOrDefaultFloat("SMARTRIDE_TRANSIT_SPEED_M_PER_MIN", 300)
	cfg.Matching.DirectSpeedMPerMin = envOrDefaultFloat("SMARTRIDE_DIRECT_SPEED_M_PER_MIN", 400)
	cfg.Matching.ExcludedStatuses = envList("SMARTRIDE_EXCLUDED_STATUSES")
	cfg.Matching.RouteCacheTTL = envOrDefaultDuration("SMARTRIDE_ROUTE_CACHE_TTL", time.Minute)

	cfg.Fares.Currency = envOrDefault("SMARTRIDE_FARE_CURRENCY", "BWP")
	cfg.Fares.RouteBase = envOrDefaultInt64("SMARTRIDE_FARE_ROUTE_BASE", 600)
	cfg.Fares.RoutePerKm = envOrDefaultInt64("SMARTRIDE_FARE_ROUTE_PER_KM", 100)
	cfg.Fares.RouteMaxVariable = envOrDefaultInt64("SMARTRIDE_FARE_ROUTE_MAX_VARIABLE", 500)
	cfg.Fares.TaxiBase = envOrDefaultInt64("SMARTRIDE_FARE_TAXI_BASE", 2500)
	cfg.Fares.TaxiPerKm = envOrDefaultInt64("SMARTRIDE_FARE_TAXI_PER_KM", 400)
	cfg.Fares.TaxiMaxVariable = envOrDefaultInt64("SMARTRIDE_FARE_TAXI_MAX_VARIABLE", 1500)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the matching math cannot work with.
func (c Config) Validate() error {
	var errs []error
	positive := map[string]float64{
		"SMARTRIDE_MATCH_RADIUS_M":          c.Matching.RadiusM,
		"SMARTRIDE_PICKUP_SPEED_M_PER_MIN":  c.Matching.PickupSpeedMPerMin,
		"SMARTRIDE_TRANSIT_SPEED_M_PER_MIN": c.Matching.TransitSpeedMPerMin,
		"SMARTRIDE_DIRECT_SPEED_M_PER_MIN":  c.Matching.DirectSpeedMPerMin,
		"SMARTRIDE_FARE_ROUTE_BASE":         float64(c.Fares.RouteBase),
		"SMARTRIDE_FARE_TAXI_BASE":          float64(c.Fares.TaxiBase),
	}
	for key, v := range positive {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive", key))
		}
	}
	if c.Fares.RoutePerKm < 0 || c.Fares.TaxiPerKm < 0 || c.Fares.RouteMaxVariable < 0 || c.Fares.TaxiMaxVariable < 0 {
		errs = append(errs, errors.New("per-km fares and variable caps must not be negative"))
	}
	if c.Fares.Currency == "" {
		errs = append(errs, errors.New("SMARTRIDE_FARE_CURRENCY is required"))
	}
	if c.SnapshotFile == "" && c.DB.DSN == "" {
		errs = append(errs, errors.New("set SMARTRIDE_SNAPSHOT_FILE or SMARTRIDE_DB_DSN"))
	}
	return errors.Join(errs...)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// envList splits a comma-separated value, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

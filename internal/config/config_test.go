package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here
	t.Setenv("SMARTRIDE_SNAPSHOT_FILE", "data/gaborone.yml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 200.0, cfg.Matching.RadiusM)
	assert.Equal(t, 200.0, cfg.Matching.PickupSpeedMPerMin)
	assert.Equal(t, 300.0, cfg.Matching.TransitSpeedMPerMin)
	assert.Equal(t, 400.0, cfg.Matching.DirectSpeedMPerMin)
	assert.Empty(t, cfg.Matching.ExcludedStatuses)
	assert.Equal(t, time.Minute, cfg.Matching.RouteCacheTTL)
	assert.Equal(t, "BWP", cfg.Fares.Currency)
	assert.Equal(t, int64(600), cfg.Fares.RouteBase)
	assert.Equal(t, int64(2500), cfg.Fares.TaxiBase)
	assert.Equal(t, "bw", cfg.Maps.Region)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SMARTRIDE_DB_DSN", "postgres://localhost/smartride")
	t.Setenv("SMARTRIDE_MATCH_RADIUS_M", "350.5")
	t.Setenv("SMARTRIDE_EXCLUDED_STATUSES", "offline, maintenance,,")
	t.Setenv("SMARTRIDE_ROUTE_CACHE_TTL", "30s")
	t.Setenv("SMARTRIDE_FARE_TAXI_BASE", "3000")
	t.Setenv("SMARTRIDE_PICKUP_SPEED_M_PER_MIN", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 350.5, cfg.Matching.RadiusM)
	assert.Equal(t, []string{"offline", "maintenance"}, cfg.Matching.ExcludedStatuses)
	assert.Equal(t, 30*time.Second, cfg.Matching.RouteCacheTTL)
	assert.Equal(t, int64(3000), cfg.Fares.TaxiBase)
	assert.Equal(t, 200.0, cfg.Matching.PickupSpeedMPerMin, "unparsable values fall back to the default")
}

func TestLoad_DotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("SMARTRIDE_DB_DSN=postgres://dotenv/smartride\nSMARTRIDE_HTTP_ADDR=:9090\n"), 0o600))
	t.Setenv("SMARTRIDE_HTTP_ADDR", ":7070")
	// godotenv only fills variables that are absent, and it leaves them set.
	require.NoError(t, os.Unsetenv("SMARTRIDE_DB_DSN"))
	t.Cleanup(func() { _ = os.Unsetenv("SMARTRIDE_DB_DSN") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv/smartride", cfg.DB.DSN)
	assert.Equal(t, ":7070", cfg.HTTP.Addr, "real environment wins over .env")
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SMARTRIDE_SNAPSHOT_FILE", "data/gaborone.yml")
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name string
		edit func(c *Config)
		want string
	}{
		{"zero radius", func(c *Config) { c.Matching.RadiusM = 0 }, "SMARTRIDE_MATCH_RADIUS_M"},
		{"negative transit speed", func(c *Config) { c.Matching.TransitSpeedMPerMin = -1 }, "SMARTRIDE_TRANSIT_SPEED_M_PER_MIN"},
		{"zero taxi base", func(c *Config) { c.Fares.TaxiBase = 0 }, "SMARTRIDE_FARE_TAXI_BASE"},
		{"negative cap", func(c *Config) { c.Fares.RouteMaxVariable = -5 }, "variable caps"},
		{"no currency", func(c *Config) { c.Fares.Currency = "" }, "SMARTRIDE_FARE_CURRENCY"},
		{"no data source", func(c *Config) { c.SnapshotFile = ""; c.DB.DSN = "" }, "SMARTRIDE_DB_DSN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.edit(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

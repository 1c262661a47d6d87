package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartride/internal/config"
	"smartride/internal/modules/matching"
	"smartride/internal/modules/pricing"
	"smartride/internal/types"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.SnapshotFile = "../../data/gaborone.yml"
	cfg.Matching = config.MatchingConfig{
		RadiusM:             1500,
		PickupSpeedMPerMin:  200,
		TransitSpeedMPerMin: 300,
		DirectSpeedMPerMin:  400,
		RouteCacheTTL:       time.Minute,
	}
	cfg.Fares = config.FareConfig{
		Currency: "BWP", RouteBase: 600, RoutePerKm: 100, RouteMaxVariable: 500,
		TaxiBase: 2500, TaxiPerKm: 400, TaxiMaxVariable: 1500,
	}
	return cfg
}

func TestFareRates_MatchDefaults(t *testing.T) {
	assert.Equal(t, pricing.DefaultRates("BWP"), fareRates(testConfig().Fares))
}

func TestNewEngine_RejectsUnknownStatus(t *testing.T) {
	cfg := testConfig()
	cfg.Matching.ExcludedStatuses = []string{"offline", "parked"}

	_, err := newEngine(cfg, pricing.DefaultSchedule("BWP"), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parked")
}

func TestOpenSources_SnapshotMatch(t *testing.T) {
	cfg := testConfig()
	cfg.Matching.ExcludedStatuses = []string{"offline"}
	ctx := context.Background()

	srcs, err := openSources(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer srcs.Close()

	engine, err := newEngine(cfg, srcs.schedule, zap.NewNop())
	require.NoError(t, err)
	svc := matching.NewService(srcs.routes, srcs.fleet, engine, zap.NewNop())

	got, err := svc.Match(ctx, matching.DestinationQuery{
		Origin:       types.Point{Lat: -24.616, Lng: 25.930},
		Destination:  types.Point{Lat: -24.6295, Lng: 25.944},
		RadiusM:      1500,
		IncludeTaxis: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, types.ID("v3"), got[0].Vehicle.ID)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].EtaToDestinationMin, got[i].EtaToDestinationMin)
	}
}

func TestOpenSources_MissingSnapshot(t *testing.T) {
	cfg := testConfig()
	cfg.SnapshotFile = "does-not-exist.yml"

	_, err := openSources(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

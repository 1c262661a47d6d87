package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/matching"
	"smartride/internal/modules/pricing"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

var (
	tsholofelo     = types.Point{Lat: -24.616, Lng: 25.930}
	absaBroadhurst = types.Point{Lat: -24.6295, Lng: 25.944}
)

func TestLoad_PilotData(t *testing.T) {
	s, err := Load("../../data/gaborone.yml")
	require.NoError(t, err)

	require.Len(t, s.Routes, 2)
	assert.Equal(t, types.ID("r1"), s.Routes[0].ID)
	assert.Len(t, s.Routes[0].Polyline, 4)
	assert.Len(t, s.Routes[1].Stops, 3)

	require.Len(t, s.Vehicles, 3)
	require.NotNil(t, s.Vehicles[0].RouteID)
	assert.Equal(t, types.ID("r1"), *s.Vehicles[0].RouteID)
	assert.True(t, s.Vehicles[2].IsTaxi())
	assert.Equal(t, fleet.StatusOnline, s.Vehicles[2].Status)

	assert.Len(t, s.Fares, 2)
}

func TestSnapshot_MatchPilot(t *testing.T) {
	s, err := Load("../../data/gaborone.yml")
	require.NoError(t, err)
	ctx := context.Background()

	catalog, err := s.ListRoutes(ctx)
	require.NoError(t, err)
	vehicles, err := s.Nearby(ctx, tsholofelo, 1500)
	require.NoError(t, err)

	got, err := matching.MatchVehicles(matching.DestinationQuery{
		Origin:       tsholofelo,
		Destination:  absaBroadhurst,
		RadiusM:      1500,
		IncludeTaxis: true,
	}, catalog, vehicles)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, types.ID("v3"), got[0].Vehicle.ID)
	assert.Equal(t, 8, got[0].EtaToDestinationMin)
	assert.Equal(t, types.ID("v1"), got[1].Vehicle.ID)
	assert.Equal(t, 13, got[1].EtaToDestinationMin)
	assert.Equal(t, 50, got[1].OccupancyPct)

	stop, ok := routing.Catalog(catalog).FindStop("ABSA Broadhurst")
	require.True(t, ok)
	assert.Equal(t, absaBroadhurst, stop.Coords)
}

func TestSnapshot_SourcesReturnCopies(t *testing.T) {
	s, err := Load("../../data/gaborone.yml")
	require.NoError(t, err)
	ctx := context.Background()

	routes, err := s.ListRoutes(ctx)
	require.NoError(t, err)
	routes[0] = routing.Route{ID: "x"}
	vehicles, err := s.Nearby(ctx, tsholofelo, 10)
	require.NoError(t, err)
	vehicles[0].Plate = "changed"

	assert.Equal(t, types.ID("r1"), s.Routes[0].ID)
	assert.Equal(t, "B 123 ABC", s.Vehicles[0].Plate)
}

func TestSnapshot_Schedule(t *testing.T) {
	s, err := Parse([]byte(`
fares:
  - { ride_type: taxi, base_fare: 3000, per_km: 0, max_variable: 0, currency: BWP }
`))
	require.NoError(t, err)

	sched, err := s.Schedule(pricing.DefaultRates("BWP"))
	require.NoError(t, err)

	taxi, err := sched.Estimate(pricing.RideTaxi, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), taxi.Amount)
	route, err := sched.Estimate(pricing.RideFixedRoute, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(600), route.Amount)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "empty polyline",
			yaml: "routes:\n  - { id: r1, name: R, polyline: [] }\n",
			want: "Polyline",
		},
		{
			name: "coordinate pair of wrong length",
			yaml: "routes:\n  - { id: r1, name: R, polyline: [[1, 2, 3]] }\n",
			want: "Polyline",
		},
		{
			name: "zero capacity",
			yaml: "vehicles:\n  - { id: v1, capacity: 0, status: online, coords: [1, 2] }\n",
			want: "Capacity",
		},
		{
			name: "negative occupancy",
			yaml: "vehicles:\n  - { id: v1, capacity: 4, occupancy: -1, status: online, coords: [1, 2] }\n",
			want: "Occupancy",
		},
		{
			name: "unknown status",
			yaml: "vehicles:\n  - { id: v1, capacity: 4, status: parked, coords: [1, 2] }\n",
			want: "Status",
		},
		{
			name: "missing vehicle id",
			yaml: "vehicles:\n  - { capacity: 4, status: online, coords: [1, 2] }\n",
			want: "ID",
		},
		{
			name: "latitude out of range",
			yaml: "vehicles:\n  - { id: v1, capacity: 4, status: online, coords: [100, 2] }\n",
			want: "out of range",
		},
		{
			name: "duplicate route",
			yaml: "routes:\n  - { id: r1, name: A, polyline: [[1, 2]] }\n  - { id: r1, name: B, polyline: [[1, 3]] }\n",
			want: `duplicate route id "r1"`,
		},
		{
			name: "duplicate vehicle",
			yaml: "vehicles:\n  - { id: v1, capacity: 4, status: online, coords: [1, 2] }\n  - { id: v1, capacity: 4, status: online, coords: [1, 2] }\n",
			want: `duplicate vehicle id "v1"`,
		},
		{
			name: "unknown ride type",
			yaml: "fares:\n  - { ride_type: boda, base_fare: 100, currency: BWP }\n",
			want: "RideType",
		},
		{
			name: "malformed yaml",
			yaml: "routes: [",
			want: "parse snapshot",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yml")
	assert.ErrorContains(t, err, "read snapshot")
}

package fleet

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartride/internal/types"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestStore_UpsertAndSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, v := range testFleet() {
		require.NoError(t, s.Upsert(ctx, v))
	}

	got, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.ID{"v1", "v2", "v3", "v4", "v5", "v6"}, ids(got))

	// overwrite keeps one record per id
	moved := testFleet()[0]
	moved.Occupancy = 12
	require.NoError(t, s.Upsert(ctx, moved))
	got, err = s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, 12, got[0].Occupancy)
	require.NotNil(t, got[0].RouteID)
	assert.Equal(t, types.ID("r1"), *got[0].RouteID)
}

func TestStore_UpsertRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	assert.ErrorIs(t, s.Upsert(ctx, Vehicle{Capacity: 4, Status: StatusOnline}), ErrMissingID)

	err := s.Upsert(ctx, Vehicle{ID: "bad", Capacity: 0, Status: StatusOnline, Coords: origin})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "capacity", fe.Field)

	got, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_NearbyOrdersByDistance(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for _, v := range testFleet() {
		require.NoError(t, s.Upsert(ctx, v))
	}

	got, err := s.Nearby(ctx, origin, 200)
	require.NoError(t, err)

	// v5 sits 900 m away and must not come back.
	assert.Equal(t, []types.ID{"v6", "v4", "v2", "v1", "v3"}, ids(got))
}

func TestStore_NearbyThenLocator(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for _, v := range testFleet() {
		require.NoError(t, s.Upsert(ctx, v))
	}

	near, err := s.Nearby(ctx, origin, 200)
	require.NoError(t, err)
	got := FindVehiclesNear(origin, 200, map[types.ID]struct{}{"r1": {}}, false, near)

	assert.ElementsMatch(t, []types.ID{"v1", "v4"}, ids(got))
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	for _, v := range testFleet() {
		require.NoError(t, s.Upsert(ctx, v))
	}

	require.NoError(t, s.Remove(ctx, "v2"))

	got, err := s.Nearby(ctx, origin, 200)
	require.NoError(t, err)
	assert.NotContains(t, ids(got), types.ID("v2"))
	assert.Empty(t, mr.HGet(vehiclesKey, "v2"))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap, 5)
}

func TestStore_NearbyEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.Nearby(context.Background(), origin, 500)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_UpsertRejectsUnindexableLatitude(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	polar := Vehicle{ID: "polar", Capacity: 4, Status: StatusOnline, Coords: types.Point{Lat: 89.5, Lng: 25.9}}
	require.NoError(t, polar.Validate())

	err := s.Upsert(ctx, polar)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "coords", fe.Field)

	got, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_UpsertStoresEmptyRouteAsTaxi(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	v := Vehicle{ID: "t9", Capacity: 4, RouteID: RouteRef(""), Status: StatusOnline, Coords: origin}
	require.NoError(t, s.Upsert(ctx, v))

	assert.NotContains(t, mr.HGet(vehiclesKey, "t9"), "route_id")
	got, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].RouteID)
	assert.True(t, got[0].IsTaxi())
}

// README: Fleet snapshot store backed by a Redis hash and GEO index.
package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"smartride/internal/types"
)

const (
	vehiclesKey  = "fleet:vehicles"
	positionsKey = "fleet:positions"
)

// maxGeoLat is the latitude limit of the Redis GEO index (Web Mercator).
const maxGeoLat = 85.05112878

var ErrMissingID = errors.New("vehicle id is required")

// Store keeps the latest reported state of each vehicle. Positions are indexed
// with GEOADD so Nearby can prefilter before the locator applies the exact rule.
type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// Upsert writes the vehicle record and its position in one transaction.
func (s *Store) Upsert(ctx context.Context, v Vehicle) error {
	if v.ID == "" {
		return ErrMissingID
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("upsert vehicle %s: %w", v.ID, err)
	}
	if v.Coords.Lat > maxGeoLat || v.Coords.Lat < -maxGeoLat {
		return fmt.Errorf("upsert vehicle %s: %w", v.ID,
			&FieldError{Field: "coords", Reason: fmt.Sprintf("latitude beyond ±%v is not indexable", maxGeoLat)})
	}
	if v.IsTaxi() {
		v.RouteID = nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode vehicle %s: %w", v.ID, err)
	}
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, vehiclesKey, string(v.ID), raw)
		pipe.GeoAdd(ctx, positionsKey, &redis.GeoLocation{
			Name:      string(v.ID),
			Longitude: v.Coords.Lng,
			Latitude:  v.Coords.Lat,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert vehicle %s: %w", v.ID, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id types.ID) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, vehiclesKey, string(id))
		pipe.ZRem(ctx, positionsKey, string(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove vehicle %s: %w", id, err)
	}
	return nil
}

// Snapshot returns every stored vehicle ordered by id.
func (s *Store) Snapshot(ctx context.Context) ([]Vehicle, error) {
	all, err := s.redis.HGetAll(ctx, vehiclesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load fleet: %w", err)
	}
	vehicles := make([]Vehicle, 0, len(all))
	for id, raw := range all {
		var v Vehicle
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode vehicle %s: %w", id, err)
		}
		vehicles = append(vehicles, v)
	}
	slices.SortFunc(vehicles, func(a, b Vehicle) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return vehicles, nil
}

// Nearby returns vehicles indexed within roughly radiusM of p, nearest first.
// The search radius is padded slightly because Redis geohash distances differ
// from haversine by a small margin; callers apply the exact radius.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusM float64) ([]Vehicle, error) {
	locs, err := s.redis.GeoRadius(ctx, positionsKey, p.Lng, p.Lat, &redis.GeoRadiusQuery{
		Radius: paddedRadius(radiusM),
		Unit:   "m",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo radius: %w", err)
	}
	if len(locs) == 0 {
		return []Vehicle{}, nil
	}

	ids := make([]string, len(locs))
	for i, l := range locs {
		ids[i] = l.Name
	}
	raws, err := s.redis.HMGet(ctx, vehiclesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}

	vehicles := make([]Vehicle, 0, len(raws))
	for i, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			// position without a record; Remove raced with the search
			continue
		}
		var v Vehicle
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, fmt.Errorf("decode vehicle %s: %w", ids[i], err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func paddedRadius(radiusM float64) float64 {
	return radiusM*1.01 + 10
}

package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smartride/internal/config"
	"smartride/internal/infra"
	"smartride/internal/modules/fleet"
	"smartride/internal/modules/matching"
	"smartride/internal/modules/pricing"
	"smartride/internal/modules/routing"
	"smartride/internal/snapshot"
)

// sources holds the catalog, fleet and fare schedule the service reads from,
// plus whatever connections back them.
type sources struct {
	routes   matching.RouteSource
	fleet    matching.FleetSource
	schedule *pricing.Schedule

	db     *pgxpool.Pool
	redis  *redis.Client
	cached *routing.CachedSource
}

func (s *sources) Close() {
	if s.cached != nil {
		s.cached.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// openSources serves everything from the snapshot file when one is configured,
// otherwise routes and fares come from Postgres and vehicles from Redis.
func openSources(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sources, error) {
	defaults := fareRates(cfg.Fares)

	if cfg.SnapshotFile != "" {
		snap, err := snapshot.Load(cfg.SnapshotFile)
		if err != nil {
			return nil, err
		}
		schedule, err := snap.Schedule(defaults)
		if err != nil {
			return nil, err
		}
		logger.Info("serving snapshot",
			zap.String("file", cfg.SnapshotFile),
			zap.Int("routes", len(snap.Routes)),
			zap.Int("vehicles", len(snap.Vehicles)),
		)
		return &sources{routes: snap, fleet: snap, schedule: schedule}, nil
	}

	s := &sources{}
	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	s.db = db

	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.redis = rdb

	schedule, err := pricing.NewStore(db).LoadSchedule(ctx, defaults)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load fares: %w", err)
	}
	s.schedule = schedule

	s.cached = routing.NewCachedSource(routing.NewStore(db), cfg.Matching.RouteCacheTTL)
	s.routes = s.cached
	s.fleet = fleet.NewStore(rdb)
	return s, nil
}

func fareRates(f config.FareConfig) []pricing.Rate {
	return []pricing.Rate{
		{RideType: pricing.RideFixedRoute, BaseFare: f.RouteBase, PerKm: f.RoutePerKm, MaxVariable: f.RouteMaxVariable, Currency: f.Currency},
		{RideType: pricing.RideTaxi, BaseFare: f.TaxiBase, PerKm: f.TaxiPerKm, MaxVariable: f.TaxiMaxVariable, Currency: f.Currency},
	}
}

func newEngine(cfg config.Config, schedule *pricing.Schedule, logger *zap.Logger) (*matching.Engine, error) {
	excluded := make([]fleet.Status, 0, len(cfg.Matching.ExcludedStatuses))
	for _, raw := range cfg.Matching.ExcludedStatuses {
		st, err := fleet.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("SMARTRIDE_EXCLUDED_STATUSES: %w", err)
		}
		excluded = append(excluded, st)
	}

	eta := matching.SpeedEtaEstimator{
		TransitSpeedMPerMin: cfg.Matching.TransitSpeedMPerMin,
		DirectSpeedMPerMin:  cfg.Matching.DirectSpeedMPerMin,
	}
	ranker := matching.NewRanker(eta, schedule, cfg.Matching.PickupSpeedMPerMin, logger)
	return matching.NewEngine(fleet.Locator{ExcludedStatuses: excluded}, ranker), nil
}

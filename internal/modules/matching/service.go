// README: Matching service: loads catalog and fleet snapshots, then runs the engine.
package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

// RouteSource supplies the route catalog.
type RouteSource interface {
	ListRoutes(ctx context.Context) ([]routing.Route, error)
}

// FleetSource supplies vehicles around a point. Implementations may return
// vehicles outside radiusM; the locator applies the exact radius.
type FleetSource interface {
	Nearby(ctx context.Context, p types.Point, radiusM float64) ([]fleet.Vehicle, error)
}

type Service struct {
	routes RouteSource
	fleet  FleetSource
	engine *Engine
	logger *zap.Logger
}

func NewService(routes RouteSource, fleetSrc FleetSource, engine *Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = NewEngine(fleet.Locator{}, DefaultRanker(logger))
	}
	return &Service{routes: routes, fleet: fleetSrc, engine: engine, logger: logger}
}

func (s *Service) Match(ctx context.Context, q DestinationQuery) ([]CandidateVehicle, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	catalog, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	vehicles, err := s.fleet.Nearby(ctx, q.Origin, q.RadiusM)
	if err != nil {
		return nil, fmt.Errorf("load fleet: %w", err)
	}

	out, err := s.engine.Match(q, catalog, vehicles)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("match",
		zap.Stringer("origin", q.Origin),
		zap.Stringer("destination", q.Destination),
		zap.Float64("radius_m", q.RadiusM),
		zap.Bool("include_taxis", q.IncludeTaxis),
		zap.Int("fleet", len(vehicles)),
		zap.Int("candidates", len(out)),
	)
	return out, nil
}

func (s *Service) Routes(ctx context.Context) ([]routing.Route, error) {
	catalog, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	if catalog == nil {
		catalog = []routing.Route{}
	}
	return catalog, nil
}

// RoutesNear lists routes with a polyline vertex within radiusM of p.
func (s *Service) RoutesNear(ctx context.Context, p types.Point, radiusM float64) ([]routing.Route, error) {
	if err := validatePoint("destination", p); err != nil {
		return nil, err
	}
	if err := validateRadius(radiusM); err != nil {
		return nil, err
	}
	catalog, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	return routing.FindCandidateRoutes(p, radiusM, catalog), nil
}

// VehiclesNear lists vehicles within radiusM of origin on any of routeIDs,
// plus taxis when includeTaxis is set.
func (s *Service) VehiclesNear(ctx context.Context, origin types.Point, radiusM float64, routeIDs []types.ID, includeTaxis bool) ([]fleet.Vehicle, error) {
	if err := validatePoint("origin", origin); err != nil {
		return nil, err
	}
	if err := validateRadius(radiusM); err != nil {
		return nil, err
	}
	vehicles, err := s.fleet.Nearby(ctx, origin, radiusM)
	if err != nil {
		return nil, fmt.Errorf("load fleet: %w", err)
	}
	matched := make(map[types.ID]struct{}, len(routeIDs))
	for _, id := range routeIDs {
		matched[id] = struct{}{}
	}
	return s.engine.Locator.Find(origin, radiusM, matched, includeTaxis, vehicles), nil
}

// ResolveStop finds a stop by name across the catalog.
func (s *Service) ResolveStop(ctx context.Context, name string) (routing.Stop, error) {
	catalog, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return routing.Stop{}, fmt.Errorf("load routes: %w", err)
	}
	stop, ok := routing.Catalog(catalog).FindStop(name)
	if !ok {
		return routing.Stop{}, fmt.Errorf("%w: %q", ErrStopNotFound, name)
	}
	return stop, nil
}

package main

import (
	"context"
	"fmt"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/pricing"
	"smartride/internal/modules/routing"
	"smartride/internal/snapshot"
)

type routeWriter interface {
	UpsertRoute(ctx context.Context, r routing.Route, position int) error
}

type rateWriter interface {
	UpsertRate(ctx context.Context, r pricing.Rate) error
}

type vehicleWriter interface {
	Upsert(ctx context.Context, v fleet.Vehicle) error
}

// seed writes routes in file order so catalog position follows the snapshot.
func seed(ctx context.Context, snap *snapshot.Snapshot, routes routeWriter, rates rateWriter, vehicles vehicleWriter) error {
	for i, r := range snap.Routes {
		if err := routes.UpsertRoute(ctx, r, i); err != nil {
			return err
		}
	}
	for _, r := range snap.Fares {
		if err := rates.UpsertRate(ctx, r); err != nil {
			return fmt.Errorf("fare %s: %w", r.RideType, err)
		}
	}
	for _, v := range snap.Vehicles {
		if err := vehicles.Upsert(ctx, v); err != nil {
			return fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
	}
	return nil
}

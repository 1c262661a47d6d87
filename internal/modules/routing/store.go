// README: Route catalog store backed by PostgreSQL.
package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartride/internal/types"
)

var ErrEmptyPolyline = errors.New("route polyline has no points")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListRoutes loads the whole catalog ordered by position, then id.
func (s *Store) ListRoutes(ctx context.Context) ([]Route, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM routes ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	var routes []Route
	index := make(map[types.ID]int)
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan route: %w", err)
		}
		index[r.ID] = len(routes)
		routes = append(routes, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}

	if err := s.loadPoints(ctx, routes, index); err != nil {
		return nil, err
	}
	if err := s.loadStops(ctx, routes, index); err != nil {
		return nil, err
	}
	return routes, nil
}

func (s *Store) loadPoints(ctx context.Context, routes []Route, index map[types.ID]int) error {
	rows, err := s.db.Query(ctx, `SELECT route_id, lat, lng FROM route_points ORDER BY route_id, seq`)
	if err != nil {
		return fmt.Errorf("query route points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var routeID types.ID
		var p types.Point
		if err := rows.Scan(&routeID, &p.Lat, &p.Lng); err != nil {
			return fmt.Errorf("scan route point: %w", err)
		}
		if i, ok := index[routeID]; ok {
			routes[i].Polyline = append(routes[i].Polyline, p)
		}
	}
	return rows.Err()
}

func (s *Store) loadStops(ctx context.Context, routes []Route, index map[types.ID]int) error {
	rows, err := s.db.Query(ctx, `SELECT route_id, stop_id, name, lat, lng FROM route_stops ORDER BY route_id, seq`)
	if err != nil {
		return fmt.Errorf("query route stops: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var routeID types.ID
		var st Stop
		if err := rows.Scan(&routeID, &st.ID, &st.Name, &st.Coords.Lat, &st.Coords.Lng); err != nil {
			return fmt.Errorf("scan route stop: %w", err)
		}
		if i, ok := index[routeID]; ok {
			routes[i].Stops = append(routes[i].Stops, st)
		}
	}
	return rows.Err()
}

// UpsertRoute writes a route and replaces its points and stops atomically.
func (s *Store) UpsertRoute(ctx context.Context, r Route, position int) error {
	if len(r.Polyline) == 0 {
		return fmt.Errorf("upsert route %s: %w", r.ID, ErrEmptyPolyline)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        INSERT INTO routes (id, name, position) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, position = EXCLUDED.position`,
		string(r.ID), r.Name, position,
	); err != nil {
		return fmt.Errorf("upsert route %s: %w", r.ID, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM route_points WHERE route_id = $1`, string(r.ID))
	batch.Queue(`DELETE FROM route_stops WHERE route_id = $1`, string(r.ID))
	for i, p := range r.Polyline {
		batch.Queue(`INSERT INTO route_points (route_id, seq, lat, lng) VALUES ($1, $2, $3, $4)`,
			string(r.ID), i, p.Lat, p.Lng)
	}
	for i, st := range r.Stops {
		batch.Queue(`INSERT INTO route_stops (route_id, seq, stop_id, name, lat, lng) VALUES ($1, $2, $3, $4, $5, $6)`,
			string(r.ID), i, string(st.ID), st.Name, st.Coords.Lat, st.Coords.Lng)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write points and stops for %s: %w", r.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit route %s: %w", r.ID, err)
	}
	return nil
}

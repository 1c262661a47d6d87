// README: Fare rate store backed by PostgreSQL.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetRate(ctx context.Context, rideType RideType) (Rate, error) {
	r := Rate{RideType: rideType}
	err := s.db.QueryRow(ctx, `
        SELECT base_fare, per_km, max_variable, currency
        FROM fare_rates WHERE ride_type = $1`, string(rideType),
	).Scan(&r.BaseFare, &r.PerKm, &r.MaxVariable, &r.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	if err != nil {
		return Rate{}, fmt.Errorf("get rate %s: %w", rideType, err)
	}
	return r, nil
}

func (s *Store) ListRates(ctx context.Context) ([]Rate, error) {
	rows, err := s.db.Query(ctx, `
        SELECT ride_type, base_fare, per_km, max_variable, currency
        FROM fare_rates ORDER BY ride_type`)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var rates []Rate
	for rows.Next() {
		var r Rate
		var rideType string
		if err := rows.Scan(&rideType, &r.BaseFare, &r.PerKm, &r.MaxVariable, &r.Currency); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		r.RideType = RideType(rideType)
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (s *Store) UpsertRate(ctx context.Context, r Rate) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO fare_rates (ride_type, base_fare, per_km, max_variable, currency)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (ride_type) DO UPDATE SET
            base_fare = EXCLUDED.base_fare,
            per_km = EXCLUDED.per_km,
            max_variable = EXCLUDED.max_variable,
            currency = EXCLUDED.currency`,
		string(r.RideType), r.BaseFare, r.PerKm, r.MaxVariable, r.Currency,
	)
	if err != nil {
		return fmt.Errorf("upsert rate %s: %w", r.RideType, err)
	}
	return nil
}

// LoadSchedule overlays the stored rates on top of defaults.
func (s *Store) LoadSchedule(ctx context.Context, defaults []Rate) (*Schedule, error) {
	stored, err := s.ListRates(ctx)
	if err != nil {
		return nil, err
	}
	return NewSchedule(append(append([]Rate{}, defaults...), stored...)...)
}

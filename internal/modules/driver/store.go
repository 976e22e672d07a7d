// README: Driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdispatch/internal/types"
)

var ErrNotFound = errors.New("driver not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const selectDriver = `
	SELECT id, employee_id, name, location_id,
	       fatigue_score, health_status, credits, bonus_credits,
	       is_available, experience_years, license_type
	FROM drivers`

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, selectDriver+` WHERE id = $1`, string(id))
	return scanDriver(row)
}

func (s *Store) ListAvailable(ctx context.Context, locationID string) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, selectDriver+`
		WHERE location_id = $1 AND is_available
		ORDER BY employee_id`, locationID)
	if err != nil {
		return nil, err
	}
	return collectDrivers(rows)
}

func (s *Store) ListByLocation(ctx context.Context, locationID string) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, selectDriver+`
		WHERE location_id = $1
		ORDER BY employee_id`, locationID)
	if err != nil {
		return nil, err
	}
	return collectDrivers(rows)
}

// ListEligibleSubstitutes returns, in query order, drivers who may take over a
// declined route: same location, available, not health-restricted, and not the
// driver who declined.
func (s *Store) ListEligibleSubstitutes(ctx context.Context, locationID string, exclude types.ID) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, selectDriver+`
		WHERE location_id = $1
		  AND is_available
		  AND health_status <> $2
		  AND id <> $3
		ORDER BY employee_id`,
		locationID, string(HealthRestricted), string(exclude))
	if err != nil {
		return nil, err
	}
	return collectDrivers(rows)
}

func (s *Store) SetAvailability(ctx context.Context, id types.ID, available bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE drivers SET is_available = $1 WHERE id = $2`,
		available, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AwardCredits(ctx context.Context, id types.ID, credits, bonus int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET credits = credits + $1,
		    bonus_credits = bonus_credits + $2
		WHERE id = $3`,
		credits, bonus, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStateTx writes the fatigue/health/availability produced by a dispatch
// cycle inside the batch transaction.
func (s *Store) UpdateStateTx(ctx context.Context, tx pgx.Tx, d *Driver) error {
	_, err := tx.Exec(ctx, `
		UPDATE drivers
		SET fatigue_score = $1,
		    health_status = $2,
		    is_available = $3
		WHERE id = $4`,
		d.FatigueScore, string(d.HealthStatus), d.IsAvailable, string(d.ID))
	return err
}

func (s *Store) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (
			id, employee_id, name, location_id,
			fatigue_score, health_status, credits, bonus_credits,
			is_available, experience_years, license_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(d.ID), d.EmployeeID, d.Name, d.LocationID,
		d.FatigueScore, string(d.HealthStatus), d.Credits, d.BonusCredits,
		d.IsAvailable, d.ExperienceYears, d.LicenseType,
	)
	return err
}

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	var health string
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.Name, &d.LocationID,
		&d.FatigueScore, &health, &d.Credits, &d.BonusCredits,
		&d.IsAvailable, &d.ExperienceYears, &d.LicenseType,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.HealthStatus = HealthStatus(health)
	return &d, nil
}

func collectDrivers(rows pgx.Rows) ([]*Driver, error) {
	defer rows.Close()
	var drivers []*Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

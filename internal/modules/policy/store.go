// README: Weekly policy store backed by PostgreSQL; falls back to defaults.
package policy

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const selectPolicy = `
	SELECT location_id,
	       easy_routes_target, medium_routes_target, hard_routes_target,
	       easy_route_credits, medium_route_credits, hard_route_credits,
	       max_consecutive_hard_routes, fatigue_threshold,
	       auto_dispatch_enabled, auto_dispatch_time,
	       updated_at, updated_by
	FROM weekly_policies`

// Get returns the policy for a location, or the documented defaults when no
// row exists. Missing-policy is not an error.
func (s *Store) Get(ctx context.Context, locationID string) (*WeeklyPolicy, error) {
	row := s.db.QueryRow(ctx, selectPolicy+` WHERE location_id = $1`, locationID)
	p, err := scanPolicy(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Default(locationID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListAutoDispatch returns policies with auto-dispatch enabled.
func (s *Store) ListAutoDispatch(ctx context.Context) ([]*WeeklyPolicy, error) {
	rows, err := s.db.Query(ctx, selectPolicy+` WHERE auto_dispatch_enabled`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*WeeklyPolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, p *WeeklyPolicy) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO weekly_policies (
			location_id,
			easy_routes_target, medium_routes_target, hard_routes_target,
			easy_route_credits, medium_route_credits, hard_route_credits,
			max_consecutive_hard_routes, fatigue_threshold,
			auto_dispatch_enabled, auto_dispatch_time,
			updated_at, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), $12)
		ON CONFLICT (location_id) DO UPDATE SET
			easy_routes_target = EXCLUDED.easy_routes_target,
			medium_routes_target = EXCLUDED.medium_routes_target,
			hard_routes_target = EXCLUDED.hard_routes_target,
			easy_route_credits = EXCLUDED.easy_route_credits,
			medium_route_credits = EXCLUDED.medium_route_credits,
			hard_route_credits = EXCLUDED.hard_route_credits,
			max_consecutive_hard_routes = EXCLUDED.max_consecutive_hard_routes,
			fatigue_threshold = EXCLUDED.fatigue_threshold,
			auto_dispatch_enabled = EXCLUDED.auto_dispatch_enabled,
			auto_dispatch_time = EXCLUDED.auto_dispatch_time,
			updated_at = NOW(),
			updated_by = EXCLUDED.updated_by`,
		p.LocationID,
		p.EasyRoutesTarget, p.MediumRoutesTarget, p.HardRoutesTarget,
		p.EasyRouteCredits, p.MediumRouteCredits, p.HardRouteCredits,
		p.MaxConsecutiveHardRoutes, p.FatigueThreshold,
		p.AutoDispatchEnabled, p.AutoDispatchTime,
		p.UpdatedBy,
	)
	return err
}

func scanPolicy(row pgx.Row) (*WeeklyPolicy, error) {
	var p WeeklyPolicy
	err := row.Scan(
		&p.LocationID,
		&p.EasyRoutesTarget, &p.MediumRoutesTarget, &p.HardRoutesTarget,
		&p.EasyRouteCredits, &p.MediumRouteCredits, &p.HardRouteCredits,
		&p.MaxConsecutiveHardRoutes, &p.FatigueThreshold,
		&p.AutoDispatchEnabled, &p.AutoDispatchTime,
		&p.UpdatedAt, &p.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// README: Route store backed by PostgreSQL.
package route

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdispatch/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Route) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO routes (
			id, description, area, location_id,
			start_lat, start_lng, end_lat, end_lng,
			package_count, weight_kg, has_elevator, traffic_level,
			apartment_density, walking_distance_km, stairs_count, parking_difficulty,
			predicted_time_minutes, terrain_difficulty,
			grade, grade_reason, route_score, route_credits,
			is_assigned, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18,
			$19, $20, $21, $22,
			$23, $24
		)`,
		string(r.ID), r.Description, r.Area, r.LocationID,
		r.Start.Lat, r.Start.Lng, r.End.Lat, r.End.Lng,
		r.PackageCount, r.WeightKg, r.HasElevator, r.TrafficLevel,
		r.ApartmentDensity, r.WalkingDistanceKm, r.StairsCount, r.ParkingDifficulty,
		r.PredictedTimeMinutes, r.TerrainDifficulty,
		string(r.Grade), r.GradeReason, r.RouteScore, r.RouteCredits,
		r.IsAssigned, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Route, error) {
	row := s.db.QueryRow(ctx, selectRoute+` WHERE id = $1`, string(id))
	return scanRoute(row)
}

func (s *Store) ListUnassigned(ctx context.Context, locationID string) ([]*Route, error) {
	rows, err := s.db.Query(ctx, selectRoute+`
		WHERE location_id = $1 AND NOT is_assigned
		ORDER BY created_at`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// MarkAssignedTx flips is_assigned inside the dispatch batch transaction.
func (s *Store) MarkAssignedTx(ctx context.Context, tx pgx.Tx, id types.ID) error {
	_, err := tx.Exec(ctx, `UPDATE routes SET is_assigned = TRUE WHERE id = $1`, string(id))
	return err
}

const selectRoute = `
	SELECT id, description, area, location_id,
	       start_lat, start_lng, end_lat, end_lng,
	       package_count, weight_kg, has_elevator, traffic_level,
	       apartment_density, walking_distance_km, stairs_count, parking_difficulty,
	       predicted_time_minutes, terrain_difficulty,
	       grade, grade_reason, route_score, route_credits,
	       is_assigned, created_at
	FROM routes`

func scanRoute(row pgx.Row) (*Route, error) {
	var r Route
	var grade string
	err := row.Scan(
		&r.ID, &r.Description, &r.Area, &r.LocationID,
		&r.Start.Lat, &r.Start.Lng, &r.End.Lat, &r.End.Lng,
		&r.PackageCount, &r.WeightKg, &r.HasElevator, &r.TrafficLevel,
		&r.ApartmentDensity, &r.WalkingDistanceKm, &r.StairsCount, &r.ParkingDifficulty,
		&r.PredictedTimeMinutes, &r.TerrainDifficulty,
		&grade, &r.GradeReason, &r.RouteScore, &r.RouteCredits,
		&r.IsAssigned, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Grade = Grade(grade)
	return &r, nil
}

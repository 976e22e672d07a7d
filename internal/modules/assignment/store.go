// README: Assignment store backed by PostgreSQL, including the weekly balance query.
package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, a *Assignment) error {
	return insertAssignment(ctx, s.db, a)
}

// CreateTx inserts an assignment inside the dispatch batch transaction.
func (s *Store) CreateTx(ctx context.Context, tx pgx.Tx, a *Assignment) error {
	return insertAssignment(ctx, tx, a)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertAssignment(ctx context.Context, db execer, a *Assignment) error {
	_, err := db.Exec(ctx, `
		INSERT INTO assignments (
			id, driver_id, route_id, assigned_date, status,
			explanation, assignment_reason,
			response_time, decline_reason,
			original_driver_id, reassignment_bonus, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(a.ID), string(a.DriverID), string(a.RouteID), a.AssignedDate, string(a.Status),
		a.Explanation, a.AssignmentReason,
		a.ResponseTime, a.DeclineReason,
		toStringPtr(a.OriginalDriverID), a.ReassignmentBonus, a.CompletedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Assignment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, driver_id, route_id, assigned_date, status,
		       explanation, assignment_reason,
		       response_time, decline_reason,
		       original_driver_id, reassignment_bonus, completed_at
		FROM assignments
		WHERE id = $1`, string(id))

	var a Assignment
	var status string
	var responseTime, completedAt sql.NullTime
	var declineReason, originalDriverID sql.NullString

	err := row.Scan(
		&a.ID, &a.DriverID, &a.RouteID, &a.AssignedDate, &status,
		&a.Explanation, &a.AssignmentReason,
		&responseTime, &declineReason,
		&originalDriverID, &a.ReassignmentBonus, &completedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a.Status = Status(status)
	if responseTime.Valid {
		t := responseTime.Time
		a.ResponseTime = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	if declineReason.Valid {
		a.DeclineReason = &declineReason.String
	}
	if originalDriverID.Valid {
		id := types.ID(originalDriverID.String)
		a.OriginalDriverID = &id
	}
	return &a, nil
}

// UpdateStatus performs an optimistic transition: the row must still be in the
// expected from-status for the update to apply. Response and completion
// timestamps are stamped by the transition itself.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, declineReason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE assignments
		SET status = $1,
		    decline_reason = COALESCE($2, decline_reason),
		    response_time = CASE WHEN $1 IN ('ACCEPTED', 'DECLINED') THEN NOW() ELSE response_time END,
		    completed_at = CASE WHEN $1 = 'COMPLETED' THEN NOW() ELSE completed_at END
		WHERE id = $3 AND status = $4`,
		string(to), declineReason, string(id), string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// WeeklyBalance counts accepted/completed assignments by route grade since the
// given instant (callers pass now minus seven days).
func (s *Store) WeeklyBalance(ctx context.Context, driverID types.ID, since time.Time) (WeeklyBalance, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.grade, COUNT(*)
		FROM assignments a
		JOIN routes r ON r.id = a.route_id
		WHERE a.driver_id = $1
		  AND a.assigned_date >= $2
		  AND a.status IN ('ACCEPTED', 'COMPLETED')
		GROUP BY r.grade`,
		string(driverID), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balance := EmptyBalance()
	for rows.Next() {
		var grade string
		var count int
		if err := rows.Scan(&grade, &count); err != nil {
			return nil, err
		}
		balance[route.Grade(grade)] = count
	}
	return balance, rows.Err()
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

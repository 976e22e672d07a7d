// README: Assignment service; driver responses and the decline and reassignment path.
package assignment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/policy"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

var (
	ErrNotFound     = errors.New("assignment not found")
	ErrInvalidState = errors.New("invalid status transition")
	ErrConflict     = errors.New("assignment status conflict")
	ErrBadRequest   = errors.New("bad request")
)

// ReassignmentBonus is the fixed extra credit for taking over a declined route.
const ReassignmentBonus = 5

const reassignmentExplanation = "This route was reassigned to you. Thank you for your flexibility!"

// Storage is the persistence surface the service needs; *Store implements it.
type Storage interface {
	Create(ctx context.Context, a *Assignment) error
	Get(ctx context.Context, id types.ID) (*Assignment, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, declineReason *string) (bool, error)
}

// DriverDirectory is the slice of the driver module the service needs.
type DriverDirectory interface {
	Get(ctx context.Context, id types.ID) (*driver.Driver, error)
	ListEligibleSubstitutes(ctx context.Context, locationID string, exclude types.ID) ([]*driver.Driver, error)
	SetAvailability(ctx context.Context, id types.ID, available bool) error
	AwardCredits(ctx context.Context, id types.ID, credits, bonus int) error
}

type RouteDirectory interface {
	Get(ctx context.Context, id types.ID) (*route.Route, error)
}

// PolicyDirectory resolves the weekly policy holding the per-grade credit
// rates for a location.
type PolicyDirectory interface {
	Get(ctx context.Context, locationID string) (*policy.WeeklyPolicy, error)
}

type Service struct {
	store    Storage
	drivers  DriverDirectory
	routes   RouteDirectory
	policies PolicyDirectory
}

func NewService(store Storage, drivers DriverDirectory, routes RouteDirectory, policies PolicyDirectory) *Service {
	return &Service{store: store, drivers: drivers, routes: routes, policies: policies}
}

type RespondCommand struct {
	AssignmentID  types.ID
	DriverID      types.ID
	DeclineReason string
}

// Accept transitions the assignment to accepted, awards the location policy's
// credit rate for the route's grade plus any reassignment bonus, and takes
// the driver off duty for the day.
func (s *Service) Accept(ctx context.Context, cmd RespondCommand) error {
	a, err := s.owned(ctx, cmd)
	if err != nil {
		return err
	}
	if !CanTransition(a.Status, StatusAccepted) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, a.ID, a.Status, StatusAccepted, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	r, err := s.routes.Get(ctx, a.RouteID)
	if err != nil {
		return fmt.Errorf("load route for credit award: %w", err)
	}
	d, err := s.drivers.Get(ctx, a.DriverID)
	if err != nil {
		return fmt.Errorf("load driver for credit award: %w", err)
	}
	pol, err := s.policies.Get(ctx, d.LocationID)
	if err != nil {
		return fmt.Errorf("load policy for credit award: %w", err)
	}
	if pol == nil {
		pol = policy.Default(d.LocationID)
	}
	if err := s.drivers.AwardCredits(ctx, a.DriverID, creditsFor(pol, r.Grade), a.ReassignmentBonus); err != nil {
		return fmt.Errorf("award credits: %w", err)
	}
	return s.drivers.SetAvailability(ctx, a.DriverID, false)
}

// creditsFor maps a graded difficulty to the policy's credit rate.
func creditsFor(pol *policy.WeeklyPolicy, grade route.Grade) int {
	switch grade {
	case route.GradeHard:
		return pol.HardRouteCredits
	case route.GradeMedium:
		return pol.MediumRouteCredits
	default:
		return pol.EasyRouteCredits
	}
}

// Decline records the decline and runs the reassignment handler: the first
// eligible substitute in query order takes the route on a fresh pending
// assignment carrying the fixed bonus. Deliberately no re-scoring here.
// Returns the replacement assignment, or nil when no substitute exists; in
// that case the route stays bound to the declined assignment.
func (s *Service) Decline(ctx context.Context, cmd RespondCommand) (*Assignment, error) {
	a, err := s.owned(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, StatusDeclined) {
		return nil, ErrInvalidState
	}
	var reason *string
	if cmd.DeclineReason != "" {
		reason = &cmd.DeclineReason
	}
	ok, err := s.store.UpdateStatus(ctx, a.ID, a.Status, StatusDeclined, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	decliner, err := s.drivers.Get(ctx, a.DriverID)
	if err != nil {
		return nil, fmt.Errorf("load declining driver: %w", err)
	}
	candidates, err := s.drivers.ListEligibleSubstitutes(ctx, decliner.LocationID, a.DriverID)
	if err != nil {
		return nil, fmt.Errorf("list substitutes: %w", err)
	}
	if len(candidates) == 0 {
		// Normal outcome, not an error; the route is not returned to the pool.
		return nil, nil
	}

	substitute := candidates[0]
	originalDriver := a.DriverID
	replacement := &Assignment{
		ID:                newID(),
		DriverID:          substitute.ID,
		RouteID:           a.RouteID,
		AssignedDate:      time.Now(),
		Status:            StatusPending,
		Explanation:       reassignmentExplanation,
		AssignmentReason:  "reassignment",
		OriginalDriverID:  &originalDriver,
		ReassignmentBonus: ReassignmentBonus,
	}
	if err := s.store.Create(ctx, replacement); err != nil {
		return nil, fmt.Errorf("create replacement assignment: %w", err)
	}
	if _, err := s.store.UpdateStatus(ctx, a.ID, StatusDeclined, StatusReassigned, nil); err != nil {
		return nil, err
	}
	return replacement, nil
}

// Complete closes out an accepted assignment and puts the driver back on duty.
func (s *Service) Complete(ctx context.Context, cmd RespondCommand) error {
	a, err := s.owned(ctx, cmd)
	if err != nil {
		return err
	}
	if !CanTransition(a.Status, StatusCompleted) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, a.ID, a.Status, StatusCompleted, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return s.drivers.SetAvailability(ctx, a.DriverID, true)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Assignment, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) owned(ctx context.Context, cmd RespondCommand) (*Assignment, error) {
	a, err := s.store.Get(ctx, cmd.AssignmentID)
	if err != nil {
		return nil, err
	}
	if a.DriverID != cmd.DriverID {
		return nil, fmt.Errorf("%w: assignment belongs to another driver", ErrBadRequest)
	}
	return a, nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

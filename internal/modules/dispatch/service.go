// README: Dispatch service; fetches pools, runs the engine, persists the batch.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairdispatch/internal/ai"
	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/location"
	"fairdispatch/internal/modules/policy"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

const aiPolishTimeout = 3 * time.Second

type Service struct {
	db          *pgxpool.Pool
	engine      *Engine
	drivers     *driver.Store
	routes      *route.Store
	assignments *assignment.Store
	policies    *policy.Store
	locations   *location.Service
	polisher    ai.Provider // optional

	// One cycle at a time per location; fatigue mutation and pool removal
	// are not idempotent.
	locks sync.Map // location_id -> *sync.Mutex
}

type ServiceDeps struct {
	DB          *pgxpool.Pool
	Engine      *Engine
	Drivers     *driver.Store
	Routes      *route.Store
	Assignments *assignment.Store
	Policies    *policy.Store
	Locations   *location.Service
	Polisher    ai.Provider
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		db:          deps.DB,
		engine:      deps.Engine,
		drivers:     deps.Drivers,
		routes:      deps.Routes,
		assignments: deps.Assignments,
		policies:    deps.Policies,
		locations:   deps.Locations,
		polisher:    deps.Polisher,
	}
}

type Summary struct {
	LocationID         string
	AssignmentsCreated int
	UnmatchedDrivers   int
	UnmatchedRoutes    int
}

// RunForLocation executes one dispatch cycle for a location: fetch pools and
// weekly balances, run the matching engine, and persist the full batch in a
// single transaction. An empty pool on either side is a normal no-op cycle.
func (s *Service) RunForLocation(ctx context.Context, locationID string) (*Summary, error) {
	mu := s.lockFor(locationID)
	mu.Lock()
	defer mu.Unlock()

	drivers, err := s.drivers.ListAvailable(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("list available drivers: %w", err)
	}
	routes, err := s.routes.ListUnassigned(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("list unassigned routes: %w", err)
	}
	summary := &Summary{LocationID: locationID}
	if len(drivers) == 0 || len(routes) == 0 {
		summary.UnmatchedDrivers = len(drivers)
		summary.UnmatchedRoutes = len(routes)
		return summary, nil
	}

	pol, err := s.policies.Get(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	since := time.Now().AddDate(0, 0, -7)
	balances := make(map[types.ID]assignment.WeeklyBalance, len(drivers))
	positions := make(map[types.ID]types.Point, len(drivers))
	for _, d := range drivers {
		balance, err := s.assignments.WeeklyBalance(ctx, d.ID, since)
		if err != nil {
			return nil, fmt.Errorf("weekly balance for driver %s: %w", d.ID, err)
		}
		balances[d.ID] = balance
		positions[d.ID] = s.locations.CurrentPosition(ctx, d.ID)
	}

	result, err := s.engine.RunCycle(Input{
		Drivers:   drivers,
		Routes:    routes,
		Balances:  balances,
		Positions: positions,
		Policy:    pol,
	})
	if err != nil {
		return nil, err
	}

	s.polishExplanations(ctx, result)

	if err := s.persistBatch(ctx, result); err != nil {
		return nil, err
	}

	summary.AssignmentsCreated = len(result.Assignments)
	summary.UnmatchedDrivers = result.UnmatchedDrivers
	summary.UnmatchedRoutes = result.UnmatchedRoutes
	return summary, nil
}

// persistBatch writes the whole cycle result in one transaction so a failure
// never leaves a partially committed mix of assignments and driver updates.
func (s *Service) persistBatch(ctx context.Context, result *CycleResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin dispatch batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, a := range result.Assignments {
		if err := s.assignments.CreateTx(ctx, tx, a); err != nil {
			return fmt.Errorf("persist assignment %s: %w", a.ID, err)
		}
	}
	for _, r := range result.UpdatedRoutes {
		if err := s.routes.MarkAssignedTx(ctx, tx, r.ID); err != nil {
			return fmt.Errorf("persist route %s: %w", r.ID, err)
		}
	}
	for _, d := range result.UpdatedDrivers {
		if err := s.drivers.UpdateStateTx(ctx, tx, d); err != nil {
			return fmt.Errorf("persist driver %s: %w", d.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// polishExplanations optionally rewrites the template explanations with the
// AI provider. Failures keep the deterministic text.
func (s *Service) polishExplanations(ctx context.Context, result *CycleResult) {
	if s.polisher == nil {
		return
	}
	for i, a := range result.Assignments {
		pctx, cancel := context.WithTimeout(ctx, aiPolishTimeout)
		polished, err := s.polisher.PolishExplanation(pctx, ai.ExplanationRequest{
			DriverName: result.UpdatedDrivers[i].Name,
			RouteArea:  result.UpdatedRoutes[i].Area,
			Draft:      a.Explanation,
		})
		cancel()
		if err != nil {
			log.Printf("explanation polish failed for assignment %s: %v", a.ID, err)
			continue
		}
		a.Explanation = polished
	}
}

// RunScheduler runs auto-dispatch: once a minute it compares each enabled
// policy's dispatch time against the clock and runs that location's cycle.
func (s *Service) RunScheduler(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

func (s *Service) runDue(ctx context.Context, now time.Time) {
	policies, err := s.policies.ListAutoDispatch(ctx)
	if err != nil {
		log.Printf("auto-dispatch: list policies: %v", err)
		return
	}
	current := now.Format("15:04")
	for _, pol := range policies {
		if pol.AutoDispatchTime != current {
			continue
		}
		summary, err := s.RunForLocation(ctx, pol.LocationID)
		if err != nil {
			// One bad location must not stop the others.
			log.Printf("auto-dispatch: location %s: %v", pol.LocationID, err)
			continue
		}
		log.Printf("auto-dispatch: location %s created %d assignments (%d drivers, %d routes left unmatched)",
			summary.LocationID, summary.AssignmentsCreated, summary.UnmatchedDrivers, summary.UnmatchedRoutes)
	}
}

func (s *Service) lockFor(locationID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(locationID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// README: Greedy matching engine; pure computation over caller-supplied pools.
package dispatch

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"sort"
	"time"

	"fairdispatch/internal/config"
	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/location"
	"fairdispatch/internal/modules/policy"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

var (
	// ErrRouteAlreadyAssigned and ErrDriverUnavailable guard the core
	// invariant: an entity never enters a cycle twice.
	ErrRouteAlreadyAssigned = errors.New("route already assigned")
	ErrDriverUnavailable    = errors.New("driver not available for matching")
	ErrDuplicateEntity      = errors.New("duplicate entity in pool")
)

// Engine runs one greedy matching cycle. The jitter RNG is injected so tests
// can fix the seed; production wires a locked process-wide generator, since
// cycles for different locations run concurrently on the same Engine.
type Engine struct {
	rng         *mrand.Rand
	routeWindow int
	minScore    int
	base        types.Point
	now         func() time.Time
}

func NewEngine(rng *mrand.Rand, cfg config.DispatchConfig) *Engine {
	window := cfg.RouteWindow
	if window <= 0 {
		window = 3
	}
	return &Engine{
		rng:         rng,
		routeWindow: window,
		minScore:    cfg.MinScore,
		base:        types.Point{Lat: cfg.CityLat, Lng: cfg.CityLng},
		now:         time.Now,
	}
}

// Input is everything a cycle computes over, fetched by the caller up front.
// The engine itself never touches storage or the network.
type Input struct {
	Drivers   []*driver.Driver
	Routes    []*route.Route
	Balances  map[types.ID]assignment.WeeklyBalance
	Positions map[types.ID]types.Point
	Policy    *policy.WeeklyPolicy
}

// CycleResult is the full mutation batch of one cycle, returned atomically for
// the caller to persist in a single transaction.
type CycleResult struct {
	Assignments      []*assignment.Assignment
	UpdatedDrivers   []*driver.Driver
	UpdatedRoutes    []*route.Route
	UnmatchedDrivers int
	UnmatchedRoutes  int
}

// RunCycle pairs available drivers to unassigned routes. Routes are taken
// hardest-first; each iteration scores the top routeWindow routes against all
// remaining drivers, perturbs each score by a uniform jitter in [-5, +5], and
// commits the single best pair if it clears the quality gate. The loop stops
// on pool exhaustion, on the iteration cap of 2×len(drivers), or as soon as no
// pair clears the gate.
func (e *Engine) RunCycle(in Input) (*CycleResult, error) {
	if err := validatePools(in.Drivers, in.Routes); err != nil {
		return nil, err
	}

	pol := in.Policy
	if pol == nil {
		pol = policy.Default("")
	}
	targets := Targets{
		Easy:   pol.EasyRoutesTarget,
		Medium: pol.MediumRoutesTarget,
		Hard:   pol.HardRoutesTarget,
	}

	drivers := append([]*driver.Driver(nil), in.Drivers...)
	routes := append([]*route.Route(nil), in.Routes...)

	// Hard, high-volume routes first.
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Grade.Rank() != routes[j].Grade.Rank() {
			return routes[i].Grade.Rank() > routes[j].Grade.Rank()
		}
		return routes[i].PackageCount > routes[j].PackageCount
	})

	result := &CycleResult{}
	now := e.now()
	maxIterations := 2 * len(in.Drivers)

	for iteration := 0; iteration < maxIterations && len(drivers) > 0 && len(routes) > 0; iteration++ {
		bestScore := -1.0
		bestDriver, bestRoute := -1, -1
		var bestCompat Compatibility

		window := routes
		if len(window) > e.routeWindow {
			window = window[:e.routeWindow]
		}
		for ri, r := range window {
			for di, d := range drivers {
				compat := ScorePair(d, r, e.balanceFor(in, d), e.positionFor(in, d), targets, now)
				// Human-like tie breaking; strict > keeps the first
				// pair encountered on exact ties.
				adjusted := float64(compat.Score) + (e.rng.Float64()*10 - 5)
				if adjusted > bestScore {
					bestScore = adjusted
					bestDriver, bestRoute = di, ri
					bestCompat = compat
				}
			}
		}

		// Quality gate: stop rather than commit a poor match.
		if bestRoute < 0 || bestScore <= float64(e.minScore) {
			break
		}

		d := drivers[bestDriver]
		r := routes[bestRoute]

		a := &assignment.Assignment{
			ID:               newID(),
			DriverID:         d.ID,
			RouteID:          r.ID,
			AssignedDate:     now,
			Status:           assignment.StatusPending,
			Explanation:      buildExplanation(d, bestCompat, now),
			AssignmentReason: reasonCode(d, bestCompat),
		}

		r.IsAssigned = true
		d.ApplyRouteLoad(r.Grade)

		result.Assignments = append(result.Assignments, a)
		result.UpdatedDrivers = append(result.UpdatedDrivers, d)
		result.UpdatedRoutes = append(result.UpdatedRoutes, r)

		drivers = append(drivers[:bestDriver], drivers[bestDriver+1:]...)
		routes = append(routes[:bestRoute], routes[bestRoute+1:]...)
	}

	result.UnmatchedDrivers = len(drivers)
	result.UnmatchedRoutes = len(routes)
	return result, nil
}

func (e *Engine) balanceFor(in Input, d *driver.Driver) assignment.WeeklyBalance {
	if b, ok := in.Balances[d.ID]; ok {
		return b
	}
	return assignment.EmptyBalance()
}

func (e *Engine) positionFor(in Input, d *driver.Driver) types.Point {
	if p, ok := in.Positions[d.ID]; ok {
		return p
	}
	return location.SimulatedPosition(e.base, d.ID)
}

func validatePools(drivers []*driver.Driver, routes []*route.Route) error {
	seenDrivers := make(map[types.ID]bool, len(drivers))
	for _, d := range drivers {
		if !d.IsAvailable {
			return fmt.Errorf("%w: driver %s", ErrDriverUnavailable, d.ID)
		}
		if seenDrivers[d.ID] {
			return fmt.Errorf("%w: driver %s", ErrDuplicateEntity, d.ID)
		}
		seenDrivers[d.ID] = true
	}
	seenRoutes := make(map[types.ID]bool, len(routes))
	for _, r := range routes {
		if r.IsAssigned {
			return fmt.Errorf("%w: route %s", ErrRouteAlreadyAssigned, r.ID)
		}
		if seenRoutes[r.ID] {
			return fmt.Errorf("%w: route %s", ErrDuplicateEntity, r.ID)
		}
		seenRoutes[r.ID] = true
	}
	return nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

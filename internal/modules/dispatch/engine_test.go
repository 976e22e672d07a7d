package dispatch

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"fairdispatch/internal/config"
	"fairdispatch/internal/infra"
	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

func testEngine(seed int64, window int) *Engine {
	e := NewEngine(rand.New(rand.NewSource(seed)), config.DispatchConfig{
		RouteWindow: window,
		MinScore:    40,
		CityLat:     13.0827,
		CityLng:     80.2707,
	})
	e.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return e
}

func makeDrivers(n int, fatigue float64) []*driver.Driver {
	out := make([]*driver.Driver, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &driver.Driver{
			ID:           types.ID(fmt.Sprintf("driver-%02d", i)),
			Name:         fmt.Sprintf("Driver %02d", i),
			FatigueScore: fatigue,
			HealthStatus: driver.HealthForFatigue(fatigue),
			IsAvailable:  true,
		})
	}
	return out
}

func makeRoutes(n int, grade route.Grade) []*route.Route {
	out := make([]*route.Route, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &route.Route{
			ID:           types.ID(fmt.Sprintf("route-%02d", i)),
			Start:        routeStart,
			Grade:        grade,
			PackageCount: 10 + i,
		})
	}
	return out
}

func TestRunCycle_NoDoubleAssignment(t *testing.T) {
	e := testEngine(42, 3)
	in := Input{
		Drivers: makeDrivers(6, 10),
		Routes:  makeRoutes(8, route.GradeMedium),
	}
	result, err := e.RunCycle(in)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	seenDrivers := map[types.ID]bool{}
	seenRoutes := map[types.ID]bool{}
	for _, a := range result.Assignments {
		if seenDrivers[a.DriverID] {
			t.Fatalf("driver %s assigned twice", a.DriverID)
		}
		if seenRoutes[a.RouteID] {
			t.Fatalf("route %s assigned twice", a.RouteID)
		}
		seenDrivers[a.DriverID] = true
		seenRoutes[a.RouteID] = true
	}
	if len(result.Assignments) > len(in.Drivers) {
		t.Fatalf("%d assignments exceed %d drivers", len(result.Assignments), len(in.Drivers))
	}
	if got := len(result.Assignments) + result.UnmatchedRoutes; got != len(in.Routes) {
		t.Fatalf("route accounting off: %d assigned + %d unmatched != %d", len(result.Assignments), result.UnmatchedRoutes, len(in.Routes))
	}
	if got := len(result.Assignments) + result.UnmatchedDrivers; got != len(in.Drivers) {
		t.Fatalf("driver accounting off: %d assigned + %d unmatched != %d", len(result.Assignments), result.UnmatchedDrivers, len(in.Drivers))
	}
}

func TestRunCycle_CommitSideEffects(t *testing.T) {
	e := testEngine(42, 3)
	in := Input{
		Drivers: makeDrivers(1, 10),
		Routes:  makeRoutes(1, route.GradeHard),
	}
	result, err := e.RunCycle(in)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(result.Assignments))
	}

	a := result.Assignments[0]
	if a.Status != assignment.StatusPending {
		t.Errorf("status = %s, want %s", a.Status, assignment.StatusPending)
	}
	if a.Explanation == "" || a.AssignmentReason == "" {
		t.Errorf("explanation/reason not populated: %+v", a)
	}
	if a.AssignedDate.IsZero() {
		t.Errorf("assigned date not set")
	}

	r := result.UpdatedRoutes[0]
	if !r.IsAssigned {
		t.Errorf("route not marked assigned")
	}
	d := result.UpdatedDrivers[0]
	if d.FatigueScore != 25 {
		t.Errorf("fatigue = %v, want 25 after a hard route from 10", d.FatigueScore)
	}
}

func TestRunCycle_QualityGateStopsPoorMatches(t *testing.T) {
	e := testEngine(42, 3)
	drivers := makeDrivers(3, 85) // restricted
	balances := map[types.ID]assignment.WeeklyBalance{}
	positions := map[types.ID]types.Point{}
	for _, d := range drivers {
		balances[d.ID] = assignment.WeeklyBalance{
			route.GradeEasy:   0,
			route.GradeMedium: 0,
			route.GradeHard:   3,
		}
		positions[d.ID] = pointAtKm(20)
	}
	in := Input{
		Drivers:   drivers,
		Routes:    makeRoutes(3, route.GradeHard),
		Balances:  balances,
		Positions: positions,
	}
	result, err := e.RunCycle(in)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(result.Assignments) != 0 {
		t.Fatalf("expected no assignments past the quality gate, got %d", len(result.Assignments))
	}
	if result.UnmatchedDrivers != 3 || result.UnmatchedRoutes != 3 {
		t.Fatalf("unmatched = (%d, %d), want (3, 3)", result.UnmatchedDrivers, result.UnmatchedRoutes)
	}
}

func TestRunCycle_HardestRouteFirst(t *testing.T) {
	// Window of 1 forces the sorted head, which must be the hard route.
	e := testEngine(42, 1)
	easy := makeRoutes(1, route.GradeEasy)[0]
	hard := makeRoutes(1, route.GradeHard)[0]
	hard.ID = types.ID("route-hard")
	in := Input{
		Drivers: makeDrivers(1, 10),
		Routes:  []*route.Route{easy, hard},
	}
	result, err := e.RunCycle(in)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(result.Assignments))
	}
	if result.Assignments[0].RouteID != hard.ID {
		t.Errorf("assigned %s, want the hard route first", result.Assignments[0].RouteID)
	}
}

func TestRunCycle_DeterministicWithFixedSeed(t *testing.T) {
	run := func() []*assignment.Assignment {
		e := testEngine(7, 3)
		in := Input{
			Drivers: makeDrivers(5, 40),
			Routes:  makeRoutes(5, route.GradeMedium),
		}
		result, err := e.RunCycle(in)
		if err != nil {
			t.Fatalf("RunCycle: %v", err)
		}
		// RunCycle mutates driver state, so rebuild inputs per run.
		return result.Assignments
	}
	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DriverID != second[i].DriverID || first[i].RouteID != second[i].RouteID {
			t.Errorf("pair %d differs: (%s,%s) vs (%s,%s)",
				i, first[i].DriverID, first[i].RouteID, second[i].DriverID, second[i].RouteID)
		}
	}
}

func TestRunCycle_RejectsAssignedRoute(t *testing.T) {
	e := testEngine(42, 3)
	routes := makeRoutes(1, route.GradeEasy)
	routes[0].IsAssigned = true
	_, err := e.RunCycle(Input{Drivers: makeDrivers(1, 10), Routes: routes})
	if !errors.Is(err, ErrRouteAlreadyAssigned) {
		t.Fatalf("err = %v, want ErrRouteAlreadyAssigned", err)
	}
}

func TestRunCycle_RejectsUnavailableDriver(t *testing.T) {
	e := testEngine(42, 3)
	drivers := makeDrivers(1, 10)
	drivers[0].IsAvailable = false
	_, err := e.RunCycle(Input{Drivers: drivers, Routes: makeRoutes(1, route.GradeEasy)})
	if !errors.Is(err, ErrDriverUnavailable) {
		t.Fatalf("err = %v, want ErrDriverUnavailable", err)
	}
}

func TestRunCycle_RejectsDuplicates(t *testing.T) {
	e := testEngine(42, 3)

	d := makeDrivers(1, 10)
	_, err := e.RunCycle(Input{Drivers: []*driver.Driver{d[0], d[0]}, Routes: makeRoutes(1, route.GradeEasy)})
	if !errors.Is(err, ErrDuplicateEntity) {
		t.Fatalf("duplicate driver err = %v, want ErrDuplicateEntity", err)
	}

	r := makeRoutes(1, route.GradeEasy)
	_, err = e.RunCycle(Input{Drivers: makeDrivers(1, 10), Routes: []*route.Route{r[0], r[0]}})
	if !errors.Is(err, ErrDuplicateEntity) {
		t.Fatalf("duplicate route err = %v, want ErrDuplicateEntity", err)
	}
}

func TestRunCycle_EmptyPools(t *testing.T) {
	e := testEngine(42, 3)
	result, err := e.RunCycle(Input{})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(result.Assignments) != 0 || result.UnmatchedDrivers != 0 || result.UnmatchedRoutes != 0 {
		t.Fatalf("unexpected result for empty pools: %+v", result)
	}
}

func TestRunCycle_RestrictedDriverGetsHealthRecoveryReason(t *testing.T) {
	e := testEngine(42, 3)
	result, err := e.RunCycle(Input{
		Drivers: makeDrivers(1, 85),
		Routes:  makeRoutes(1, route.GradeEasy),
	})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(result.Assignments))
	}
	if got := result.Assignments[0].AssignmentReason; got != ReasonHealthRecovery {
		t.Errorf("reason = %s, want %s", got, ReasonHealthRecovery)
	}
}

func TestRunCycle_ConcurrentCyclesOnSharedEngine(t *testing.T) {
	// Cycles for different locations run concurrently on one Engine, so the
	// jitter RNG must be shareable. Exercised under -race.
	e := NewEngine(infra.NewLockedRand(42), config.DispatchConfig{
		RouteWindow: 3,
		MinScore:    40,
		CityLat:     13.0827,
		CityLng:     80.2707,
	})

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				// Fresh pools per cycle; RunCycle mutates driver state.
				result, err := e.RunCycle(Input{
					Drivers: makeDrivers(4, 10),
					Routes:  makeRoutes(4, route.GradeMedium),
				})
				if err != nil {
					t.Errorf("RunCycle: %v", err)
					return
				}
				if len(result.Assignments) > 4 {
					t.Errorf("assignments = %d, want at most 4", len(result.Assignments))
					return
				}
			}
		}()
	}
	wg.Wait()
}

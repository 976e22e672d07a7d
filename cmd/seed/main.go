// README: Seed tool; creates the schema and loads a demo fleet with graded routes.
package main

import (
	"context"
	"fmt"
	"log"
	mrand "math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/joho/godotenv"

	"fairdispatch/internal/config"
	"fairdispatch/internal/infra"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/policy"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS drivers (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	location_id TEXT NOT NULL,
	fatigue_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	health_status TEXT NOT NULL DEFAULT 'NORMAL',
	credits INTEGER NOT NULL DEFAULT 0,
	bonus_credits INTEGER NOT NULL DEFAULT 0,
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	experience_years INTEGER NOT NULL DEFAULT 0,
	license_type TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS routes (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT '',
	location_id TEXT NOT NULL,
	start_lat DOUBLE PRECISION NOT NULL,
	start_lng DOUBLE PRECISION NOT NULL,
	end_lat DOUBLE PRECISION NOT NULL,
	end_lng DOUBLE PRECISION NOT NULL,
	package_count INTEGER NOT NULL,
	weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
	has_elevator BOOLEAN NOT NULL DEFAULT FALSE,
	traffic_level DOUBLE PRECISION NOT NULL DEFAULT 0,
	apartment_density DOUBLE PRECISION NOT NULL DEFAULT 0,
	walking_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
	stairs_count INTEGER NOT NULL DEFAULT 0,
	parking_difficulty DOUBLE PRECISION NOT NULL DEFAULT 0,
	predicted_time_minutes INTEGER NOT NULL DEFAULT 0,
	terrain_difficulty DOUBLE PRECISION NOT NULL DEFAULT 0,
	grade TEXT NOT NULL,
	grade_reason TEXT NOT NULL DEFAULT '',
	route_score INTEGER NOT NULL DEFAULT 0,
	route_credits INTEGER NOT NULL DEFAULT 0,
	is_assigned BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	driver_id TEXT NOT NULL REFERENCES drivers(id),
	route_id TEXT NOT NULL REFERENCES routes(id),
	assigned_date TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	assignment_reason TEXT NOT NULL DEFAULT '',
	response_time TIMESTAMPTZ,
	decline_reason TEXT,
	original_driver_id TEXT,
	reassignment_bonus INTEGER NOT NULL DEFAULT 0,
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS weekly_policies (
	location_id TEXT PRIMARY KEY,
	easy_routes_target INTEGER NOT NULL,
	medium_routes_target INTEGER NOT NULL,
	hard_routes_target INTEGER NOT NULL,
	easy_route_credits INTEGER NOT NULL,
	medium_route_credits INTEGER NOT NULL,
	hard_route_credits INTEGER NOT NULL,
	max_consecutive_hard_routes INTEGER NOT NULL,
	fatigue_threshold DOUBLE PRECISION NOT NULL,
	auto_dispatch_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	auto_dispatch_time TEXT NOT NULL DEFAULT '08:00',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_by TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_drivers_location ON drivers(location_id);
CREATE INDEX IF NOT EXISTS idx_routes_location_unassigned ON routes(location_id, is_assigned);
CREATE INDEX IF NOT EXISTS idx_assignments_driver_date ON assignments(driver_id, assigned_date);
`

const demoLocation = "loc-chennai-1"

// Fatigue personas spanning the health bands so a demo dispatch exercises
// every scoring path.
var fatiguePersonas = []float64{30, 85, 10, 45, 62, 5, 92, 55}

type routeSpec struct {
	area      string
	packages  int
	weightKg  float64
	elevator  bool
	traffic   float64
	density   float64
	walkingKm float64
	stairs    int
	parking   float64
}

var routeSpecs = []routeSpec{
	{area: "T. Nagar", packages: 8, weightKg: 4, elevator: true, traffic: 0.3, density: 0.4, walkingKm: 1.2, stairs: 10, parking: 0.3},
	{area: "Anna Nagar", packages: 25, weightKg: 9, elevator: false, traffic: 0.6, density: 0.7, walkingKm: 3.5, stairs: 40, parking: 0.5},
	{area: "Velachery", packages: 45, weightKg: 18, elevator: false, traffic: 0.8, density: 0.9, walkingKm: 6.0, stairs: 80, parking: 0.9},
	{area: "Adyar", packages: 12, weightKg: 6, elevator: true, traffic: 0.4, density: 0.5, walkingKm: 2.0, stairs: 20, parking: 0.4},
	{area: "Mylapore", packages: 30, weightKg: 12, elevator: false, traffic: 0.7, density: 0.8, walkingKm: 4.2, stairs: 55, parking: 0.75},
	{area: "Guindy", packages: 6, weightKg: 3, elevator: true, traffic: 0.2, density: 0.3, walkingKm: 0.8, stairs: 5, parking: 0.2},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	if _, err := dbPool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	log.Println("schema ready")

	seed := cfg.Dispatch.Seed
	if seed == 0 {
		seed = 42
	}
	rng := mrand.New(mrand.NewSource(seed))
	fake := faker.New()

	driverStore := driver.NewStore(dbPool)
	for i, fatigue := range fatiguePersonas {
		d := &driver.Driver{
			ID:              route.NewID(),
			EmployeeID:      fmt.Sprintf("EMP-%04d", i+1),
			Name:            fake.Person().Name(),
			LocationID:      demoLocation,
			FatigueScore:    fatigue,
			HealthStatus:    driver.HealthForFatigue(fatigue),
			Credits:         rng.Intn(20),
			IsAvailable:     true,
			ExperienceYears: 1 + rng.Intn(10),
			LicenseType:     "LMV",
		}
		if err := driverStore.Create(ctx, d); err != nil {
			log.Fatalf("seed driver %d: %v", i, err)
		}
	}
	log.Printf("seeded %d drivers", len(fatiguePersonas))

	routeStore := route.NewStore(dbPool)
	analyzer := route.NewSimulatedAnalyzer(rng, nil)
	routeSvc := route.NewService(routeStore, analyzer)

	base := types.Point{Lat: cfg.Dispatch.CityLat, Lng: cfg.Dispatch.CityLng}
	for i, spec := range routeSpecs {
		r := &route.Route{
			Description: fake.Lorem().Sentence(6),
			Area:        spec.area,
			LocationID:  demoLocation,
			Start: types.Point{
				Lat: base.Lat + rng.Float64()*0.05 - 0.025,
				Lng: base.Lng + rng.Float64()*0.05 - 0.025,
			},
			End: types.Point{
				Lat: base.Lat + rng.Float64()*0.1 - 0.05,
				Lng: base.Lng + rng.Float64()*0.1 - 0.05,
			},
			PackageCount:      spec.packages,
			WeightKg:          spec.weightKg,
			HasElevator:       spec.elevator,
			TrafficLevel:      spec.traffic,
			ApartmentDensity:  spec.density,
			WalkingDistanceKm: spec.walkingKm,
			StairsCount:       spec.stairs,
			ParkingDifficulty: spec.parking,
		}
		if err := routeSvc.CreateGraded(ctx, r); err != nil {
			log.Fatalf("seed route %d: %v", i, err)
		}
		log.Printf("route %s graded %s (score %d, %d credits)", spec.area, r.Grade, r.RouteScore, r.RouteCredits)
	}

	policyStore := policy.NewStore(dbPool)
	pol := policy.Default(demoLocation)
	pol.AutoDispatchEnabled = true
	pol.UpdatedBy = "seed"
	if err := policyStore.Upsert(ctx, pol); err != nil {
		log.Fatalf("seed policy: %v", err)
	}
	log.Println("seeded weekly policy")
}

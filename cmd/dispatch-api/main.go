// README: Entry point; loads config, wires services, starts HTTP server and the auto-dispatch scheduler.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fairdispatch/internal/ai"
	"fairdispatch/internal/config"
	httptransport "fairdispatch/internal/http"
	"fairdispatch/internal/infra"
	"fairdispatch/internal/maps"
	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/modules/dispatch"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/location"
	"fairdispatch/internal/modules/policy"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	redisClient := infra.NewRedis(cfg.Redis.Addr)

	seed := cfg.Dispatch.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Shared by the engine and the route analyzer, so it must be locked.
	rng := infra.NewLockedRand(seed)

	base := types.Point{Lat: cfg.Dispatch.CityLat, Lng: cfg.Dispatch.CityLng}

	var travel route.TravelEstimator
	if cfg.Maps.APIKey != "" {
		routeService, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		travel = routeService
	}

	var polisher ai.Provider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		polisher = gemini
	}

	driverStore := driver.NewStore(dbPool)
	driverSvc := driver.NewService(driverStore)

	routeStore := route.NewStore(dbPool)
	analyzer := route.NewSimulatedAnalyzer(rng, travel)
	routeSvc := route.NewService(routeStore, analyzer)

	policyStore := policy.NewStore(dbPool)

	assignmentStore := assignment.NewStore(dbPool)
	assignmentSvc := assignment.NewService(assignmentStore, driverStore, routeStore, policyStore)

	locationStore := location.NewStore(redisClient)
	locationSvc := location.NewService(locationStore, base)

	engine := dispatch.NewEngine(rng, cfg.Dispatch)
	dispatchSvc := dispatch.NewService(dispatch.ServiceDeps{
		DB:          dbPool,
		Engine:      engine,
		Drivers:     driverStore,
		Routes:      routeStore,
		Assignments: assignmentStore,
		Policies:    policyStore,
		Locations:   locationSvc,
		Polisher:    polisher,
	})

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Routes:      routeSvc,
		Dispatch:    dispatchSvc,
		Assignments: assignmentSvc,
		Drivers:     driverSvc,
		Locations:   locationSvc,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go dispatchSvc.RunScheduler(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

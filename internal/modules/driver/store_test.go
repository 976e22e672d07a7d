// README: Driver store integration tests; skipped unless FD_TEST_DSN is set.
package driver

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairdispatch/internal/types"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("FD_TEST_DSN")
	if dsn == "" {
		t.Skip("FD_TEST_DSN not set; skipping store integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestStore_RoundTrip(t *testing.T) {
	pool := testPool(t)
	store := NewStore(pool)
	ctx := context.Background()

	id := types.ID(fmt.Sprintf("it%d", time.Now().UnixNano()))
	locationID := fmt.Sprintf("itloc%d", time.Now().UnixNano())
	d := &Driver{
		ID:              id,
		EmployeeID:      string(id) + "-emp",
		Name:            "Integration Driver",
		LocationID:      locationID,
		FatigueScore:    42,
		HealthStatus:    HealthNormal,
		IsAvailable:     true,
		ExperienceYears: 3,
		LicenseType:     "LMV",
	}
	if err := store.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != d.Name || got.FatigueScore != d.FatigueScore || got.HealthStatus != d.HealthStatus {
		t.Errorf("round trip mismatch: %+v vs %+v", got, d)
	}

	if err := store.SetAvailability(ctx, id, false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	available, err := store.ListAvailable(ctx, locationID)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	for _, a := range available {
		if a.ID == id {
			t.Errorf("driver still listed as available after going off duty")
		}
	}

	if err := store.AwardCredits(ctx, id, 2, 5); err != nil {
		t.Fatalf("AwardCredits: %v", err)
	}
	got, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after awards: %v", err)
	}
	if got.Credits != 2 || got.BonusCredits != 5 {
		t.Errorf("credits = (%d, %d), want (2, 5)", got.Credits, got.BonusCredits)
	}
}

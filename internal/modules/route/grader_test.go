package route

import (
	"errors"
	"strings"
	"testing"

	"fairdispatch/internal/types"
)

func TestGradeForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score       int
		wantGrade   Grade
		wantCredits int
	}{
		{0, GradeEasy, 1},
		{650, GradeEasy, 1},
		{651, GradeMedium, 2},
		{1200, GradeMedium, 2},
		{1201, GradeHard, 3},
		{5000, GradeHard, 3},
	}
	for _, tt := range tests {
		grade, credits := gradeForScore(tt.score)
		if grade != tt.wantGrade || credits != tt.wantCredits {
			t.Errorf("gradeForScore(%d) = (%s, %d), want (%s, %d)",
				tt.score, grade, credits, tt.wantGrade, tt.wantCredits)
		}
	}
}

// Routes with zero start-to-end distance so the distance term drops out and the
// expected scores can be summed by hand.
func samePointRoute() types.Point {
	return types.Point{Lat: 13.0827, Lng: 80.2707}
}

func TestGradeRoute_EasyRoute(t *testing.T) {
	r := &Route{
		Start:                samePointRoute(),
		End:                  samePointRoute(),
		PackageCount:         10,
		WeightKg:             40, // avg 4kg, light band
		HasElevator:          true,
		PredictedTimeMinutes: 60,
	}
	got, err := GradeRoute(r)
	if err != nil {
		t.Fatalf("GradeRoute: %v", err)
	}
	// P=10, W=10, D=0, T=50, SD=9
	if got.Score != 79 {
		t.Errorf("score = %d, want 79", got.Score)
	}
	if got.Grade != GradeEasy || got.Credits != 1 {
		t.Errorf("grade = (%s, %d), want (EASY, 1)", got.Grade, got.Credits)
	}
	if !strings.Contains(got.Reason, "Route Score: 79") {
		t.Errorf("reason missing score: %q", got.Reason)
	}
}

func TestGradeRoute_MediumRoute(t *testing.T) {
	r := &Route{
		Start:                samePointRoute(),
		End:                  samePointRoute(),
		PackageCount:         40,
		WeightKg:             480, // avg 12kg, heavy band
		HasElevator:          false,
		ApartmentDensity:     0.8,
		StairsCount:          60,
		PredictedTimeMinutes: 420,
	}
	got, err := GradeRoute(r)
	if err != nil {
		t.Fatalf("GradeRoute: %v", err)
	}
	// P=40, W=160, D=0, T=160, SD=196, AD=96, stairs=20
	if got.Score != 672 {
		t.Errorf("score = %d, want 672", got.Score)
	}
	if got.Grade != GradeMedium || got.Credits != 2 {
		t.Errorf("grade = (%s, %d), want (MEDIUM, 2)", got.Grade, got.Credits)
	}
}

func TestGradeRoute_HardRoute(t *testing.T) {
	r := &Route{
		Start:                samePointRoute(),
		End:                  samePointRoute(),
		PackageCount:         100,
		WeightKg:             2500, // avg 25kg, very heavy band
		HasElevator:          false,
		ApartmentDensity:     0.9,
		StairsCount:          80,
		ParkingDifficulty:    0.9,
		PredictedTimeMinutes: 600,
	}
	got, err := GradeRoute(r)
	if err != nil {
		t.Fatalf("GradeRoute: %v", err)
	}
	// P=100, W=600, D=0, T=220, SD=540, AD=540, stairs=20, parking=27
	if got.Score != 2047 {
		t.Errorf("score = %d, want 2047", got.Score)
	}
	if got.Grade != GradeHard || got.Credits != 3 {
		t.Errorf("grade = (%s, %d), want (HARD, 3)", got.Grade, got.Credits)
	}
	if !strings.Contains(got.Reason, "very heavy packages (>20kg)") {
		t.Errorf("reason missing weight factor: %q", got.Reason)
	}
}

func TestGradeRoute_ZeroPredictedTimeFallsBack(t *testing.T) {
	r := &Route{
		Start:        samePointRoute(),
		End:          samePointRoute(),
		PackageCount: 10,
		WeightKg:     40,
		HasElevator:  true,
	}
	got, err := GradeRoute(r)
	if err != nil {
		t.Fatalf("GradeRoute: %v", err)
	}
	// 120-minute fallback lands in the ≤4h bucket: same score as 60 minutes.
	if got.Score != 79 {
		t.Errorf("score = %d, want 79 via the 120-minute fallback", got.Score)
	}
}

func TestGradeRoute_MorePackagesNeverScoreLower(t *testing.T) {
	prev := -1
	for pc := 1; pc <= 200; pc += 10 {
		r := &Route{
			Start:                samePointRoute(),
			End:                  samePointRoute(),
			PackageCount:         pc,
			WeightKg:             float64(pc) * 4,
			ApartmentDensity:     0.4,
			HasElevator:          true,
			PredictedTimeMinutes: 180,
		}
		got, err := GradeRoute(r)
		if err != nil {
			t.Fatalf("GradeRoute(pc=%d): %v", pc, err)
		}
		if got.Score < prev {
			t.Fatalf("score dropped from %d to %d at pc=%d", prev, got.Score, pc)
		}
		prev = got.Score
	}
}

func TestGradeRoute_RejectsNonPositivePackageCount(t *testing.T) {
	for _, pc := range []int{0, -1} {
		r := &Route{PackageCount: pc}
		if _, err := GradeRoute(r); !errors.Is(err, ErrInvalidRoute) {
			t.Errorf("GradeRoute(pc=%d) err = %v, want ErrInvalidRoute", pc, err)
		}
	}
}

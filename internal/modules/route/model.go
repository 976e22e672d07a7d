// README: Route aggregate and the difficulty grade variant.
package route

import (
	"errors"
	"time"

	"fairdispatch/internal/types"
)

var (
	ErrNotFound = errors.New("route not found")
	// ErrInvalidRoute covers malformed grading inputs (e.g. a non-positive
	// package count); the grader rejects these instead of defaulting.
	ErrInvalidRoute = errors.New("invalid route attributes")
)

type Grade string

const (
	GradeEasy   Grade = "EASY"
	GradeMedium Grade = "MEDIUM"
	GradeHard   Grade = "HARD"
)

// Rank defines the total order over grades (hard > medium > easy). Sorting
// must go through this, never through any implicit enum ordering.
func (g Grade) Rank() int {
	switch g {
	case GradeEasy:
		return 1
	case GradeMedium:
		return 2
	case GradeHard:
		return 3
	default:
		return 0
	}
}

func (g Grade) Valid() bool {
	return g == GradeEasy || g == GradeMedium || g == GradeHard
}

type Route struct {
	ID          types.ID
	Description string
	Area        string
	LocationID  string

	Start types.Point
	End   types.Point

	// Grading factors.
	PackageCount      int
	WeightKg          float64
	HasElevator       bool
	TrafficLevel      float64 // 0..1
	ApartmentDensity  float64 // 0..1
	WalkingDistanceKm float64
	StairsCount       int
	ParkingDifficulty float64 // 0..1

	// Written by the satellite analysis stand-in before grading.
	PredictedTimeMinutes int
	TerrainDifficulty    float64

	// Written exactly once by the grader, immutable afterwards.
	Grade        Grade
	GradeReason  string
	RouteScore   int
	RouteCredits int

	IsAssigned bool
	CreatedAt  time.Time
}

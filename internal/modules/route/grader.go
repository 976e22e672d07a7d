// README: Route difficulty grader; additive score over six named terms.
package route

import (
	"fmt"
	"strings"

	"fairdispatch/internal/modules/location"
)

// Grade thresholds on the total route score.
const (
	easyMaxScore   = 650
	mediumMaxScore = 1200
)

// Share of packages assumed to be cash-on-delivery stops.
const codStopShare = 0.3

type GradeResult struct {
	Grade   Grade
	Score   int
	Credits int
	Reason  string
}

// GradeRoute computes the difficulty score, grade, credit value, and an
// explanation for a route.
//
//	score = P + W + D + T + SD + AD (+ stairs and parking additions)
//
// P: package count. W: per-package weight band times package count.
// D: start-to-end distance ×3. T: predicted-time bucket. SD: estimated COD and
// apartment stops. AD: heavy-package apartment penalty without an elevator.
//
// The analyzer must have filled PredictedTimeMinutes first; a zero value falls
// back to 120 minutes.
func GradeRoute(r *Route) (GradeResult, error) {
	if r.PackageCount <= 0 {
		return GradeResult{}, fmt.Errorf("%w: package count %d", ErrInvalidRoute, r.PackageCount)
	}

	score := 0
	var reasons []string
	var breakdown []string

	// P: package count.
	score += r.PackageCount
	breakdown = append(breakdown, fmt.Sprintf("Packages: %d", r.PackageCount))

	// W: weight band on the per-package average.
	avgWeight := r.WeightKg / float64(r.PackageCount)
	var w int
	switch {
	case avgWeight <= 5:
		w = r.PackageCount * 1
		reasons = append(reasons, "light packages (≤5kg)")
	case avgWeight <= 10:
		w = r.PackageCount * 2
		reasons = append(reasons, "moderate packages (5-10kg)")
	case avgWeight <= 20:
		w = r.PackageCount * 4
		reasons = append(reasons, "heavy packages (10-20kg)")
	default:
		w = r.PackageCount * 6
		reasons = append(reasons, "very heavy packages (>20kg)")
	}
	score += w
	breakdown = append(breakdown, fmt.Sprintf("Weight: %d", w))

	// D: start-to-end distance.
	distanceKm := location.HaversineKm(r.Start.Lat, r.Start.Lng, r.End.Lat, r.End.Lng)
	d := int(distanceKm * 3)
	score += d
	breakdown = append(breakdown, fmt.Sprintf("Distance: %d (%.1fkm)", d, distanceKm))

	// T: predicted-time bucket.
	predictedMinutes := r.PredictedTimeMinutes
	if predictedMinutes == 0 {
		predictedMinutes = 120
	}
	hours := float64(predictedMinutes) / 60
	var t int
	switch {
	case hours <= 4:
		t = 50
	case hours <= 6:
		t = 100
		reasons = append(reasons, "moderate delivery time (4-6h)")
	case hours <= 8:
		t = 160
		reasons = append(reasons, "long delivery time (6-8h)")
	default:
		t = 220
		reasons = append(reasons, "very long delivery time (>8h)")
	}
	score += t
	breakdown = append(breakdown, fmt.Sprintf("Time: %d", t))

	// SD: stop difficulty from estimated COD and apartment stops.
	codStops := int(float64(r.PackageCount) * codStopShare)
	apartmentStops := int(float64(r.PackageCount) * r.ApartmentDensity)
	sd := codStops*3 + apartmentStops*5
	score += sd
	breakdown = append(breakdown, fmt.Sprintf("Stops: %d", sd))
	if float64(apartmentStops) > float64(r.PackageCount)*0.5 {
		reasons = append(reasons, fmt.Sprintf("many apartment deliveries (%d)", apartmentStops))
	}

	// AD: heavy packages into apartments without an elevator.
	ad := 0
	if !r.HasElevator && r.ApartmentDensity > 0.5 {
		if avgWeight > 20 {
			ad = apartmentStops * 6
			reasons = append(reasons, "heavy packages in apartments without elevator")
		} else if avgWeight > 10 {
			ad = apartmentStops * 3
			reasons = append(reasons, "moderate packages in apartments without elevator")
		}
	}
	score += ad
	if ad > 0 {
		breakdown = append(breakdown, fmt.Sprintf("Apartment Penalty: %d", ad))
	}

	if r.StairsCount > 50 {
		score += 20
		reasons = append(reasons, fmt.Sprintf("excessive stairs (%d)", r.StairsCount))
	}
	if r.ParkingDifficulty > 0.7 {
		score += int(r.ParkingDifficulty * 30)
		reasons = append(reasons, "difficult parking")
	}

	grade, credits := gradeForScore(score)

	keyFactors := "standard delivery"
	if len(reasons) > 0 {
		top := reasons
		if len(top) > 3 {
			top = top[:3]
		}
		keyFactors = strings.Join(top, ", ")
	}
	reason := fmt.Sprintf(
		"Route Score: %d (%s, %d credits). Breakdown: %s. Key factors: %s",
		score, gradeLabel(grade), credits, strings.Join(breakdown, " + "), keyFactors,
	)

	return GradeResult{Grade: grade, Score: score, Credits: credits, Reason: reason}, nil
}

func gradeForScore(score int) (Grade, int) {
	switch {
	case score <= easyMaxScore:
		return GradeEasy, 1
	case score <= mediumMaxScore:
		return GradeMedium, 2
	default:
		return GradeHard, 3
	}
}

func gradeLabel(g Grade) string {
	switch g {
	case GradeEasy:
		return "Easy"
	case GradeMedium:
		return "Medium"
	case GradeHard:
		return "Hard"
	default:
		return string(g)
	}
}

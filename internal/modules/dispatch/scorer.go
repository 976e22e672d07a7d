// README: Driver/route compatibility scorer.
package dispatch

import (
	"fmt"
	"time"

	"fairdispatch/internal/modules/assignment"
	"fairdispatch/internal/modules/driver"
	"fairdispatch/internal/modules/location"
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

// Compatibility is the scored fit between one driver and one route.
type Compatibility struct {
	Score             int // clamped to [0,100]
	DistanceToStartKm float64
	Bonuses           []string
	Penalties         []string
}

// Targets are the weekly per-grade route targets from the location policy.
type Targets struct {
	Easy   int
	Medium int
	Hard   int
}

// ScorePair computes the compatibility score for a (driver, route) pair.
// Base 50, then seven independent term groups; the evaluation order only
// matters for the ordering of the bonus/penalty strings.
func ScorePair(d *driver.Driver, r *route.Route, balance assignment.WeeklyBalance, driverPos types.Point, targets Targets, now time.Time) Compatibility {
	score := 50
	var bonuses, penalties []string

	// 1. Proximity to the route start.
	distance := location.HaversineKm(driverPos.Lat, driverPos.Lng, r.Start.Lat, r.Start.Lng)
	switch {
	case distance < 2:
		score += 30
		bonuses = append(bonuses, fmt.Sprintf("Very close to route start (%.1fkm)", distance))
	case distance < 5:
		score += 20
		bonuses = append(bonuses, fmt.Sprintf("Close to route start (%.1fkm)", distance))
	case distance < 10:
		score += 10
		bonuses = append(bonuses, fmt.Sprintf("Moderate distance to start (%.1fkm)", distance))
	default:
		penalties = append(penalties, fmt.Sprintf("Far from route start (%.1fkm)", distance))
	}

	// 2. Health status against route grade.
	switch d.HealthStatus {
	case driver.HealthRestricted:
		switch r.Grade {
		case route.GradeEasy:
			score += 20
			bonuses = append(bonuses, "Health status matches easy route")
		case route.GradeMedium:
			score -= 10
			penalties = append(penalties, "Health status not ideal for medium route")
		default:
			score -= 30
			penalties = append(penalties, "Health status incompatible with hard route")
		}
	case driver.HealthCaution:
		switch r.Grade {
		case route.GradeHard:
			score -= 15
			penalties = append(penalties, "Caution status, hard route not recommended")
		case route.GradeEasy:
			score += 10
			bonuses = append(bonuses, "Caution status, easy route is good")
		}
	default:
		score += 10
		bonuses = append(bonuses, "Normal health status")
	}

	// 3. Fatigue level.
	switch {
	case d.FatigueScore < 30:
		if r.Grade == route.GradeHard {
			score += 15
			bonuses = append(bonuses, "Low fatigue, can handle hard route")
		} else {
			score += 5
		}
	case d.FatigueScore < 60:
		if r.Grade == route.GradeMedium {
			score += 10
			bonuses = append(bonuses, "Moderate fatigue, medium route is ideal")
		} else if r.Grade == route.GradeHard {
			score -= 5
		}
	default:
		switch r.Grade {
		case route.GradeEasy:
			score += 15
			bonuses = append(bonuses, "High fatigue, easy route is best")
		case route.GradeMedium:
			score -= 10
			penalties = append(penalties, "High fatigue, medium route may be challenging")
		default:
			score -= 25
			penalties = append(penalties, "High fatigue, hard route not recommended")
		}
	}

	// 4. Weekly balance against the policy targets.
	switch r.Grade {
	case route.GradeHard:
		if balance[route.GradeHard] < targets.Hard {
			score += 15
			bonuses = append(bonuses, "Needs more hard routes for weekly balance")
		} else if balance[route.GradeHard] >= targets.Hard+1 {
			score -= 10
			penalties = append(penalties, "Already has enough hard routes this week")
		}
	case route.GradeMedium:
		if balance[route.GradeMedium] < targets.Medium {
			score += 10
			bonuses = append(bonuses, "Needs more medium routes for balance")
		}
	default:
		if balance[route.GradeEasy] < targets.Easy {
			score += 10
			bonuses = append(bonuses, "Needs more easy routes for balance")
		}
	}

	// 5. Experience, proxied by recent route volume.
	totalRoutes := balance.Total()
	if totalRoutes > 15 {
		if r.Grade == route.GradeHard {
			score += 10
			bonuses = append(bonuses, "Experienced driver, can handle complex routes")
		}
	} else if totalRoutes < 5 {
		if r.Grade == route.GradeEasy {
			score += 10
			bonuses = append(bonuses, "New driver, easy route for skill building")
		} else if r.Grade == route.GradeHard {
			score -= 15
			penalties = append(penalties, "New driver, hard route not recommended")
		}
	}

	// 6. Route characteristics against driver condition.
	if !r.HasElevator && r.StairsCount > 50 {
		if d.FatigueScore < 40 {
			score += 5
			bonuses = append(bonuses, "Low fatigue, can handle stairs")
		} else {
			score -= 10
			penalties = append(penalties, "High stairs count with elevated fatigue")
		}
	}
	if r.ParkingDifficulty > 0.7 {
		if totalRoutes > 10 {
			score += 5
			bonuses = append(bonuses, "Experienced with difficult parking")
		} else {
			score -= 5
			penalties = append(penalties, "Difficult parking area")
		}
	}

	// 7. Time-of-day bonus for low-traffic routes during rush windows.
	hour := now.Hour()
	if r.TrafficLevel < 0.5 {
		if hour >= 6 && hour <= 10 {
			score += 5
			bonuses = append(bonuses, "Low traffic route during morning")
		} else if hour >= 17 && hour <= 20 {
			score += 5
			bonuses = append(bonuses, "Low traffic route during evening")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Compatibility{
		Score:             score,
		DistanceToStartKm: distance,
		Bonuses:           bonuses,
		Penalties:         penalties,
	}
}

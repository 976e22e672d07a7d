// README: Assignment explanation text and reason-code determination.
package dispatch

import (
	"fmt"
	"strings"
	"time"

	"fairdispatch/internal/modules/driver"
)

// buildExplanation assembles the deterministic assignment paragraph: greeting,
// distance-banded location sentence, and up to the top two bonus reasons.
func buildExplanation(d *driver.Driver, compat Compatibility, now time.Time) string {
	firstName := d.Name
	if fields := strings.Fields(d.Name); len(fields) > 0 {
		firstName = fields[0]
	}
	greeting := fmt.Sprintf("Good afternoon %s,", firstName)
	if now.Hour() < 12 {
		greeting = fmt.Sprintf("Good morning %s,", firstName)
	}

	distance := compat.DistanceToStartKm
	var locationNote string
	switch {
	case distance < 2:
		locationNote = fmt.Sprintf("This route starts just %.1fkm from your current location, minimizing your commute time.", distance)
	case distance < 5:
		locationNote = fmt.Sprintf("You're %.1fkm from the route start, making this a convenient assignment.", distance)
	default:
		locationNote = fmt.Sprintf("While the route is %.1fkm away, it's the best match for your current status.", distance)
	}

	topBonuses := compat.Bonuses
	if len(topBonuses) > 2 {
		topBonuses = topBonuses[:2]
	}
	if len(topBonuses) > 0 {
		return fmt.Sprintf("%s %s %s. This assignment considers your health, fatigue level, and weekly workload balance to ensure fairness.",
			greeting, locationNote, strings.Join(topBonuses, " "))
	}
	return fmt.Sprintf("%s %s This route has been carefully selected based on current conditions and fair distribution principles.",
		greeting, locationNote)
}

// Closed reason-code tags recorded on each assignment.
const (
	ReasonHealthRecovery      = "health_recovery"
	ReasonFatigueManagement   = "fatigue_management"
	ReasonProximity           = "proximity_optimization"
	ReasonWeeklyBalance       = "weekly_balance"
	ReasonIntelligentMatching = "intelligent_matching"
)

// reasonCode picks the single highest-priority reason for the assignment.
func reasonCode(d *driver.Driver, compat Compatibility) string {
	switch {
	case d.HealthStatus == driver.HealthRestricted:
		return ReasonHealthRecovery
	case d.FatigueScore >= 70:
		return ReasonFatigueManagement
	case compat.DistanceToStartKm < 2:
		return ReasonProximity
	case strings.Contains(strings.ToLower(strings.Join(compat.Bonuses, " ")), "weekly balance"):
		return ReasonWeeklyBalance
	default:
		return ReasonIntelligentMatching
	}
}

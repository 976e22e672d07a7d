// README: Driver aggregate, health derivation, and the post-assignment load update.
package driver

import (
	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

type HealthStatus string

const (
	HealthNormal     HealthStatus = "NORMAL"
	HealthCaution    HealthStatus = "CAUTION"
	HealthRestricted HealthStatus = "RESTRICTED"
)

// Health thresholds on the fatigue score.
const (
	cautionFatigue    = 60.0
	restrictedFatigue = 80.0
)

type Driver struct {
	ID              types.ID
	EmployeeID      string
	Name            string
	LocationID      string
	FatigueScore    float64 // 0..100
	HealthStatus    HealthStatus
	Credits         int
	BonusCredits    int
	IsAvailable     bool
	ExperienceYears int
	LicenseType     string
}

// HealthForFatigue derives the health status from a fatigue score. This is the
// only place the derivation lives; callers must never set HealthStatus from
// anything but a fatigue value.
func HealthForFatigue(fatigue float64) HealthStatus {
	switch {
	case fatigue >= restrictedFatigue:
		return HealthRestricted
	case fatigue >= cautionFatigue:
		return HealthCaution
	default:
		return HealthNormal
	}
}

// ApplyRouteLoad applies the fatigue delta for one committed assignment and
// re-derives the health status. Deltas: hard +15, medium +8, easy -5, with the
// fatigue score clamped to [0,100].
func (d *Driver) ApplyRouteLoad(grade route.Grade) {
	switch grade {
	case route.GradeHard:
		d.FatigueScore += 15
	case route.GradeMedium:
		d.FatigueScore += 8
	case route.GradeEasy:
		d.FatigueScore -= 5
	}
	if d.FatigueScore > 100 {
		d.FatigueScore = 100
	}
	if d.FatigueScore < 0 {
		d.FatigueScore = 0
	}
	d.HealthStatus = HealthForFatigue(d.FatigueScore)
}

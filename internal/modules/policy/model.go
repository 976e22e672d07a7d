// README: Weekly dispatch policy; per-location targets, credits, and auto-dispatch.
package policy

import "time"

type WeeklyPolicy struct {
	LocationID string

	// Weekly per-grade route targets.
	EasyRoutesTarget   int
	MediumRoutesTarget int
	HardRoutesTarget   int

	// Credit rewards per grade.
	EasyRouteCredits   int
	MediumRouteCredits int
	HardRouteCredits   int

	MaxConsecutiveHardRoutes int
	FatigueThreshold         float64

	AutoDispatchEnabled bool
	AutoDispatchTime    string // "HH:MM"

	UpdatedAt time.Time
	UpdatedBy string
}

// Default returns the documented fallback policy used when a location has no
// stored row.
func Default(locationID string) *WeeklyPolicy {
	return &WeeklyPolicy{
		LocationID:               locationID,
		EasyRoutesTarget:         2,
		MediumRoutesTarget:       3,
		HardRoutesTarget:         2,
		EasyRouteCredits:         3,
		MediumRouteCredits:       4,
		HardRouteCredits:         6,
		MaxConsecutiveHardRoutes: 2,
		FatigueThreshold:         80.0,
		AutoDispatchEnabled:      false,
		AutoDispatchTime:         "08:00",
	}
}

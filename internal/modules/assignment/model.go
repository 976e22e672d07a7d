// README: Assignment aggregate, status transitions, and the weekly balance type.
package assignment

import (
	"time"

	"fairdispatch/internal/modules/route"
	"fairdispatch/internal/types"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusDeclined   Status = "DECLINED"
	StatusReassigned Status = "REASSIGNED"
	StatusCompleted  Status = "COMPLETED"
)

// AllowedTransitions represents the assignment state flow as code. Declining
// is allowed even after acceptance; a declined assignment becomes reassigned
// once a substitute takes the route.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusDeclined},
	StatusAccepted: {StatusDeclined, StatusCompleted},
	StatusDeclined: {StatusReassigned},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type Assignment struct {
	ID           types.ID
	DriverID     types.ID
	RouteID      types.ID
	AssignedDate time.Time
	Status       Status

	Explanation      string
	AssignmentReason string // closed reason-code tag

	ResponseTime  *time.Time
	DeclineReason *string

	// Set only on replacement assignments created after a decline.
	OriginalDriverID  *types.ID
	ReassignmentBonus int

	CompletedAt *time.Time
}

// WeeklyBalance counts a driver's accepted/completed routes by grade over the
// trailing seven days. All three grades are always present.
type WeeklyBalance map[route.Grade]int

func EmptyBalance() WeeklyBalance {
	return WeeklyBalance{
		route.GradeEasy:   0,
		route.GradeMedium: 0,
		route.GradeHard:   0,
	}
}

// Total is used as the experience proxy until real career history exists.
func (b WeeklyBalance) Total() int {
	n := 0
	for _, c := range b {
		n += c
	}
	return n
}

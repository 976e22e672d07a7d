package assignment

import (
	"testing"

	"fairdispatch/internal/modules/route"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusDeclined, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusReassigned, false},
		{StatusAccepted, StatusDeclined, true},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusAccepted, false},
		{StatusDeclined, StatusReassigned, true},
		{StatusDeclined, StatusAccepted, false},
		{StatusReassigned, StatusAccepted, false},
		{StatusCompleted, StatusDeclined, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEmptyBalance(t *testing.T) {
	b := EmptyBalance()
	for _, g := range []route.Grade{route.GradeEasy, route.GradeMedium, route.GradeHard} {
		if v, ok := b[g]; !ok || v != 0 {
			t.Errorf("EmptyBalance()[%s] = (%d, %v), want (0, true)", g, v, ok)
		}
	}
	if b.Total() != 0 {
		t.Errorf("Total() = %d, want 0", b.Total())
	}
}

func TestWeeklyBalanceTotal(t *testing.T) {
	b := WeeklyBalance{
		route.GradeEasy:   2,
		route.GradeMedium: 3,
		route.GradeHard:   1,
	}
	if b.Total() != 6 {
		t.Errorf("Total() = %d, want 6", b.Total())
	}
}

package route

import "testing"

func TestGradeRank(t *testing.T) {
	tests := []struct {
		grade Grade
		want  int
	}{
		{GradeEasy, 1},
		{GradeMedium, 2},
		{GradeHard, 3},
		{Grade("BOGUS"), 0},
	}
	for _, tt := range tests {
		if got := tt.grade.Rank(); got != tt.want {
			t.Errorf("%s.Rank() = %d, want %d", tt.grade, got, tt.want)
		}
	}
}

func TestGradeValid(t *testing.T) {
	for _, g := range []Grade{GradeEasy, GradeMedium, GradeHard} {
		if !g.Valid() {
			t.Errorf("%s should be valid", g)
		}
	}
	if Grade("").Valid() || Grade("IMPOSSIBLE").Valid() {
		t.Error("invalid grades accepted")
	}
}

package marks

import (
	"testing"

	"github.com/vertexlab/academia/core/course"
)

func TestDetermineGrade(t *testing.T) {
	tests := []struct {
		name     string
		obtained float64
		max      float64
		want     string
	}{
		{name: "zero max reads as 0%", obtained: 42, max: 0, want: "F"},
		{name: "49 fails", obtained: 49, max: 100, want: "F"},
		{name: "50 boundary", obtained: 50, max: 100, want: "C"},
		{name: "56 boundary", obtained: 56, max: 100, want: "B"},
		{name: "61 boundary", obtained: 61, max: 100, want: "B+"},
		{name: "71 boundary", obtained: 71, max: 100, want: "A"},
		{name: "81 boundary", obtained: 81, max: 100, want: "A+"},
		{name: "91 boundary", obtained: 91, max: 100, want: "O"},
		{name: "full marks", obtained: 100, max: 100, want: "O"},
		{name: "scaled total", obtained: 45.5, max: 50, want: "O"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineGrade(tt.obtained, tt.max); got != tt.want {
				t.Errorf("DetermineGrade(%v, %v) = %q, want %q", tt.obtained, tt.max, got, tt.want)
			}
		})
	}
}

// the grade never drops as the score rises
func TestDetermineGrade_monotonic(t *testing.T) {
	rank := map[string]int{"F": 0, "C": 1, "B": 2, "B+": 3, "A": 4, "A+": 5, "O": 6}
	prev := "F"
	for scored := 0; scored <= 100; scored++ {
		got := DetermineGrade(float64(scored), 100)
		if rank[got] < rank[prev] {
			t.Fatalf("grade dropped from %q to %q at score %d", prev, got, scored)
		}
		prev = got
	}
}

func TestGradePoint(t *testing.T) {
	tests := []struct {
		letter string
		want   float64
	}{
		{"O", 10}, {"A+", 9}, {"A", 8}, {"B+", 7}, {"B", 6}, {"C", 5}, {"F", 0}, {"??", 0},
	}
	for _, tt := range tests {
		if got := GradePoint(tt.letter); got != tt.want {
			t.Errorf("GradePoint(%q) = %v, want %v", tt.letter, got, tt.want)
		}
	}
}

func TestRequiredExternalMarks(t *testing.T) {
	tests := []struct {
		name      string
		letter    string
		internal  float64
		practical bool
		want      float64
		ok        bool
	}{
		{name: "theory O from 55 internal", letter: "O", internal: 55, want: 67.5, ok: true},
		{name: "practical scales to 40-mark paper", letter: "A", internal: 50, practical: true, want: 21, ok: true},
		{name: "already secured goes negative", letter: "C", internal: 55, want: -9.38, ok: true},
		{name: "unreachable exceeds the paper", letter: "O", internal: 10, want: 151.88, ok: true},
		{name: "unknown letter", letter: "Z", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RequiredExternalMarks(tt.letter, tt.internal, tt.practical)
			if ok != tt.ok {
				t.Fatalf("RequiredExternalMarks() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("RequiredExternalMarks(%q, %v) = %v, want %v", tt.letter, tt.internal, got, tt.want)
			}
		})
	}
}

var gpaCourses = course.List{
	{Code: "21CSC201J", Credit: 4},
	{Code: "21MAB301T", Credit: 3},
	{Code: "21PDM101L", Credit: 0},
}

func theoryMark(code string, obtained, max float64) Mark {
	return Mark{Course: code, Category: "theory", Total: Total{Obtained: obtained, MaxMark: max}}
}

func TestComputeSGPA(t *testing.T) {
	list := []Mark{
		theoryMark("21CSC201J", 55, 60),
		theoryMark("21MAB301T", 40, 60),
	}

	t.Run("letter overrides drive the result", func(t *testing.T) {
		sel := Selection{Grades: map[string]string{"21csc201j": "O", "21mab301t": "A"}}
		// (10*4 + 8*3) / 7
		if got := ComputeSGPA(list, gpaCourses, sel); got != 9.14 {
			t.Errorf("ComputeSGPA() = %v, want 9.14", got)
		}
	})

	t.Run("excluding a course removes its weight", func(t *testing.T) {
		sel := Selection{
			Grades:   map[string]string{"21csc201j": "O", "21mab301t": "A"},
			Excluded: map[string]bool{"21mab301t": true},
		}
		if got := ComputeSGPA(list, gpaCourses, sel); got != 10 {
			t.Errorf("ComputeSGPA() = %v, want 10", got)
		}
	})

	t.Run("excluding everything yields zero", func(t *testing.T) {
		sel := Selection{Excluded: map[string]bool{"21csc201j": true, "21mab301t": true}}
		if got := ComputeSGPA(list, gpaCourses, sel); got != 0 {
			t.Errorf("ComputeSGPA() = %v, want 0", got)
		}
	})

	t.Run("zero-credit courses are skipped", func(t *testing.T) {
		withZero := append(append([]Mark{}, list...), theoryMark("21PDM101L", 10, 100))
		sel := Selection{Grades: map[string]string{"21csc201j": "O", "21mab301t": "O"}}
		if got := ComputeSGPA(withZero, gpaCourses, sel); got != 10 {
			t.Errorf("ComputeSGPA() = %v, want zero-credit row ignored", got)
		}
	})

	t.Run("practical folds into its theory twin", func(t *testing.T) {
		combined := []Mark{
			theoryMark("21CSC201J", 55, 60),
			{Course: "21 CSC 201 J", Category: "practical", Total: Total{Obtained: 30, MaxMark: 40}},
		}
		sel := Selection{Grades: map[string]string{"21csc201j": "B"}}
		if got := ComputeSGPA(combined, gpaCourses, sel); got != 6 {
			t.Errorf("ComputeSGPA() = %v, want 6 (credit counted once)", got)
		}
	})

	t.Run("bounds hold for derived grades", func(t *testing.T) {
		got := ComputeSGPA(list, gpaCourses, Selection{})
		if got < 0 || got > 10 {
			t.Errorf("ComputeSGPA() = %v, outside [0, 10]", got)
		}
	})
}

func TestComputeCGPA(t *testing.T) {
	list := []Mark{
		theoryMark("21CSC201J", 95, 100), // O -> 10
		theoryMark("21MAB301T", 60, 100), // B -> 6
	}
	// (10*4 + 6*3) / 7
	if got := ComputeCGPA(list, gpaCourses); got != 8.29 {
		t.Errorf("ComputeCGPA() = %v, want 8.29", got)
	}

	// percentage-band mode ignores letter overrides by construction:
	// a no-marks row contributes nothing
	withEmpty := append(append([]Mark{}, list...), theoryMark("21CSC202T", 0, 0))
	if got := ComputeCGPA(withEmpty, gpaCourses); got != 8.29 {
		t.Errorf("ComputeCGPA() = %v, want rows without marks skipped", got)
	}
}

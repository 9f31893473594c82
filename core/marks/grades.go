package marks

import (
	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/course"
)

// gradeBand ties a letter grade to its entry percentage and grade point.
type gradeBand struct {
	Letter string
	Floor  float64
	Point  float64
}

// gradeBands is ordered best-first; DetermineGrade walks it top down.
var gradeBands = []gradeBand{
	{"O", 91, 10},
	{"A+", 81, 9},
	{"A", 71, 8},
	{"B+", 61, 7},
	{"B", 56, 6},
	{"C", 50, 5},
}

// GradePoint maps a letter grade to its point value, 0 for "F" or anything
// unrecognized.
func GradePoint(letter string) float64 {
	for _, band := range gradeBands {
		if band.Letter == letter {
			return band.Point
		}
	}
	return 0
}

// Letters lists the selectable grades, best first, "F" last.
func Letters() []string {
	out := make([]string, 0, len(gradeBands)+1)
	for _, band := range gradeBands {
		out = append(out, band.Letter)
	}
	return append(out, "F")
}

// DetermineGrade projects an internal score onto the grade scale. A zero
// maximum is read as 0%, not a division fault.
func DetermineGrade(obtained, max float64) string {
	var percent float64
	if max > 0 {
		percent = 100 * obtained / max
	}
	for _, band := range gradeBands {
		if percent >= band.Floor {
			return band.Letter
		}
	}
	return "F"
}

const (
	// externalMaxTheory and externalMaxPractical are the semester-exam paper
	// totals; the paper is scaled down to a 40-mark contribution either way.
	externalMaxTheory    = 75.0
	externalMaxPractical = 40.0
	externalContribution = 40.0
)

// RequiredExternalMarks answers "what must I score on the semester paper to
// land the given grade", from the internal marks already banked. The result
// is in raw paper marks and may be negative (grade already secured) or exceed
// the paper total (grade out of reach); callers clamp for display.
func RequiredExternalMarks(letter string, internal float64, practical bool) (float64, bool) {
	var target float64
	found := false
	for _, band := range gradeBands {
		if band.Letter == letter {
			target, found = band.Floor, true
			break
		}
	}
	if !found {
		return 0, false
	}

	externalMax := externalMaxTheory
	if practical {
		externalMax = externalMaxPractical
	}
	return core.RoundTo((target-internal)*externalMax/externalContribution, 2), true
}

// Selection carries the student's what-if inputs for the SGPA projection:
// an expected letter grade per course (keyed by normalized code) and the
// courses to leave out entirely.
type Selection struct {
	Grades   map[string]string
	Excluded map[string]bool
}

func (s Selection) grade(code string, mark Mark) string {
	if g, ok := s.Grades[course.NormalizeCode(code)]; ok && g != "" {
		return g
	}
	return DetermineGrade(mark.Total.Obtained, mark.Total.MaxMark)
}

func (s Selection) excluded(code string) bool {
	return s.Excluded[course.NormalizeCode(code)]
}

// ComputeSGPA is the credit-weighted mean of the selected grade points.
//
// A practical row is folded into its theory twin when both share a course
// code, so a combined theory+lab course counts once at its full credit.
// Zero-credit and excluded rows contribute nothing; an empty selection
// yields 0.
func ComputeSGPA(list []Mark, courses course.List, sel Selection) float64 {
	theory := make(map[string]bool, len(list))
	for _, mark := range list {
		if !mark.IsPractical() {
			theory[course.NormalizeCode(mark.Course)] = true
		}
	}

	var weighted, creditSum float64
	for _, mark := range list {
		key := course.NormalizeCode(mark.Course)
		if sel.excluded(mark.Course) {
			continue
		}
		if mark.IsPractical() && theory[key] {
			continue
		}

		credit := mark.Credits
		if credit == 0 {
			credit = courses.CreditByCode(mark.Course)
		}
		if credit == 0 {
			continue
		}

		weighted += GradePoint(sel.grade(mark.Course, mark)) * credit
		creditSum += credit
	}

	if creditSum == 0 {
		return 0
	}
	return core.RoundTo(weighted/creditSum, 2)
}

// ComputeCGPA is the credit-weighted mean over percentage bands: each course
// contributes the grade point its internal percentage falls into, with no
// grade overrides. Courses with no credit or no marks are skipped.
func ComputeCGPA(list []Mark, courses course.List) float64 {
	theory := make(map[string]bool, len(list))
	for _, mark := range list {
		if !mark.IsPractical() {
			theory[course.NormalizeCode(mark.Course)] = true
		}
	}

	var weighted, creditSum float64
	for _, mark := range list {
		if mark.IsPractical() && theory[course.NormalizeCode(mark.Course)] {
			continue
		}
		if mark.Total.MaxMark == 0 {
			continue
		}

		credit := mark.Credits
		if credit == 0 {
			credit = courses.CreditByCode(mark.Course)
		}
		if credit == 0 {
			continue
		}

		weighted += GradePoint(DetermineGrade(mark.Total.Obtained, mark.Total.MaxMark)) * credit
		creditSum += credit
	}

	if creditSum == 0 {
		return 0
	}
	return core.RoundTo(weighted/creditSum, 2)
}

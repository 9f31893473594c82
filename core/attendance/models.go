package attendance

import "math"

// TargetRatio is the institutional attendance floor: 75%.
const TargetRatio = 0.75

type (
	StatusKind string

	// Status is the actionable margin around the 75% threshold:
	// either how many future classes must be attended to climb back to it,
	// or how many may still be missed without dropping below it.
	Status struct {
		Kind    StatusKind `json:"status"`
		Classes int        `json:"classes"`
	}

	// Record is one normalized attendance row with its derived status.
	Record struct {
		CourseCode  string  `json:"courseCode"`
		CourseTitle string  `json:"courseTitle"`
		Category    string  `json:"courseCategory"` // "theory" or "practical"
		Slot        string  `json:"courseSlot"`
		Faculty     string  `json:"courseFaculty"`
		Percentage  float64 `json:"courseAttendance"`
		Conducted   int     `json:"courseConducted"`
		Absent      int     `json:"courseAbsent"`
		Status      Status  `json:"courseAttendanceStatus"`
	}
)

const (
	StatusRequired StatusKind = "required" // classes to attend to reach 75%
	StatusMargin   StatusKind = "margin"   // classes that may still be missed
)

// BelowTarget selects the records sitting under the threshold, i.e. those
// whose status demands catch-up classes. Used by the digest mailer.
func BelowTarget(records []Record) []Record {
	var out []Record
	for _, rec := range records {
		if rec.Status.Kind == StatusRequired {
			out = append(out, rec)
		}
	}
	return out
}

// Percentage recomputes the attended ratio when the upstream value is absent.
func Percentage(conducted, absent int) float64 {
	if conducted <= 0 {
		return 0
	}
	present := conducted - absent
	if present < 0 {
		present = 0
	}
	return 100 * float64(present) / float64(conducted)
}

// Derive computes the status for a course from its conducted/absent counts
// and effective percentage.
//
// Both directions are roots of the same linear inequality
// present+x >= target*(conducted+x): the "required" count is its ceiling
// (attend x more, miss none), the "margin" count the floor of
// present/target - conducted (miss x more, attend none). The rounding is
// load-bearing; a fractional class cannot be attended.
func Derive(conducted, absent int, percent float64) Status {
	st := Status{Kind: StatusMargin}
	if conducted <= 0 {
		return st
	}

	present := conducted - absent
	if present < 0 {
		present = 0
	}

	if percent < 100*TargetRatio {
		st.Kind = StatusRequired
		needed := math.Ceil((TargetRatio*float64(conducted) - float64(present)) / (1 - TargetRatio))
		if needed > 0 {
			st.Classes = int(needed)
		}
	} else {
		spare := math.Floor(float64(present)/TargetRatio - float64(conducted))
		if spare > 0 {
			st.Classes = int(spare)
		}
	}
	return st
}

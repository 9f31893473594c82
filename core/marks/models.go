package marks

type (
	// ExamMark is one test/exam attempt inside a course.
	ExamMark struct {
		Exam     string  `json:"exam"`
		Obtained float64 `json:"obtained"`
		MaxMark  float64 `json:"maxMark"`
	}

	Total struct {
		Obtained float64 `json:"obtained"`
		MaxMark  float64 `json:"maxMark"`
	}

	// Mark aggregates a course's internal assessment marks.
	// Upstream occasionally reports Obtained > MaxMark; derivations tolerate
	// it rather than enforce the invariant.
	Mark struct {
		Course   string     `json:"course"`
		Credits  float64    `json:"credits"`
		Category string     `json:"category"` // "theory" or "practical"
		Marks    []ExamMark `json:"marks"`
		Total    Total      `json:"total"`
	}
)

// IsPractical reports the lab half of a combined theory+lab course.
func (m Mark) IsPractical() bool {
	return m.Category == "practical"
}

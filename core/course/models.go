package course

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

// Record is a normalized course-registration row.
// Identity key is the normalized course code (trimmed, lowered,
// whitespace-collapsed); the portal is not consistent about spacing.
type Record struct {
	Code     string   `json:"courseCode"`
	Title    string   `json:"courseTitle"`
	Credit   float64  `json:"courseCredit"`
	Category string   `json:"courseCategory"`
	Type     string   `json:"courseType"`
	Faculty  string   `json:"courseFaculty"`
	Slots    []string `json:"courseSlot"`
	RoomNo   string   `json:"courseRoomNo"`
}

// NormalizeCode builds the identity key for a course code.
func NormalizeCode(code string) string {
	return core.CollapseString(code)
}

// IsPractical reports whether the registered course type marks a lab.
func (r Record) IsPractical() bool {
	return strings.HasPrefix(strings.ToLower(r.Type), "p")
}

var (
	codeKeys     = []string{"courseCode", "code", "CourseCode"}
	titleKeys    = []string{"courseTitle", "title", "CourseTitle"}
	creditKeys   = []string{"courseCredit", "CourseCredit", "Credit", "credit", "credits"}
	categoryKeys = []string{"courseCategory", "category", "CourseCategory"}
	typeKeys     = []string{"courseType", "type", "CourseType"}
	facultyKeys  = []string{"courseFaculty", "faculty", "CourseFaculty"}
	slotKeys     = []string{"courseSlot", "slot", "Slot"}
	roomKeys     = []string{"courseRoomNo", "roomNo", "CourseRoomNo"}
)

// Normalize maps one raw portal course row into a Record.
func Normalize(raw portal.Record) Record {
	slotValue, _ := raw.Value(slotKeys...)
	return Record{
		Code:     raw.String(codeKeys, ""),
		Title:    raw.String(titleKeys, ""),
		Credit:   raw.Number(creditKeys, 0),
		Category: strings.ToLower(raw.String(categoryKeys, "")),
		Type:     raw.String(typeKeys, ""),
		Faculty:  raw.String(facultyKeys, ""),
		Slots:    portal.ToStringArray(slotValue),
		RoomNo:   raw.String(roomKeys, ""),
	}
}

// List is the student's registered course set, used as a lookup by the
// attendance and marks engines.
type List []Record

// FindByCode matches on the normalized identity key.
func (l List) FindByCode(code string) (Record, bool) {
	key := NormalizeCode(code)
	if key == "" {
		return Record{}, false
	}
	for _, rec := range l {
		if NormalizeCode(rec.Code) == key {
			return rec, true
		}
	}
	return Record{}, false
}

// titleSimilarityFloor is the QuickRatio below which two titles are
// considered unrelated.
const titleSimilarityFloor = 0.85

// FindByTitle is a fuzzy fallback for upstream rows that carry a mangled or
// missing course code but a recognizable title.
func (l List) FindByTitle(title string) (Record, bool) {
	needle := core.CollapseString(title)
	if needle == "" {
		return Record{}, false
	}

	var best Record
	var bestRatio float64
	for _, rec := range l {
		candidate := core.CollapseString(rec.Title)
		if candidate == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(needle, ""), strings.Split(candidate, "")).QuickRatio()
		if ratio > bestRatio {
			best, bestRatio = rec, ratio
		}
	}
	if bestRatio >= titleSimilarityFloor {
		return best, true
	}
	return Record{}, false
}

// CreditByCode returns the registered credit for a course, 0 when unknown.
func (l List) CreditByCode(code string) float64 {
	if rec, ok := l.FindByCode(code); ok {
		return rec.Credit
	}
	return 0
}

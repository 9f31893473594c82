package schedule

import (
	"fmt"
	"strings"

	"github.com/vertexlab/academia/core/portal"
)

type (
	// ClassEntry is one canonical slot of a day's timetable.
	// Entries are rebuilt fresh on every fetch, never patched in place.
	ClassEntry struct {
		SlotIndex   int    `json:"slotIndex"`
		Time        string `json:"time"`
		CourseCode  string `json:"courseCode"`
		CourseTitle string `json:"courseTitle"`
		RoomNo      string `json:"courseRoomNo"`
		CourseType  string `json:"courseType"` // "Theory", "Lab" or "" for free periods
		Slot        string `json:"slot"`
		IsClass     bool   `json:"isClass"`
	}

	// DaySchedule is the timetable of one rotating academic day
	// (day order), not a calendar weekday.
	DaySchedule struct {
		DayOrder string       `json:"dayOrder"`
		Classes  []ClassEntry `json:"class"`
	}
)

var (
	slotIndexKeys = []string{"slotIndex", "SlotIndex", "index", "Index", "period", "Period"}
	nameKeys      = []string{"name", "Name"}
	timeKeys      = []string{"time", "Time"}
	codeKeys      = []string{"code", "Code"}
	roomKeys      = []string{"roomNo", "RoomNo"}
	typeKeys      = []string{"courseType", "CourseType"}
	slotKeys      = []string{"slot", "Slot"}
	dayKeys       = []string{"day", "Day"}
)

// NormalizeDay converts one raw day record (a "table" of period records)
// into a fixed-length slot-indexed DaySchedule. Target slots come from an
// explicit 1-based index field when the portal provides one, else from the
// period's time text; a period whose time cannot be parsed is anchored at
// its raw positional index clamped into range — over-inclusion beats
// silently losing a class.
func (grid Grid) NormalizeDay(day portal.Record) DaySchedule {
	classes := make([]ClassEntry, len(grid))
	for idx := range classes {
		classes[idx] = grid.emptyEntry(idx)
	}

	for absoluteIdx, period := range portal.AsRecords(day["table"]) {
		title := period.String(nameKeys, "")
		hasClass := title != ""

		var indices []int
		if oneBased, ok := period.Index(slotIndexKeys, len(grid)); ok {
			indices = []int{oneBased - 1}
		} else if rng, ok := ParseRange(period.String(timeKeys, "")); ok {
			indices = grid.MapRangeToSlots(rng.Start, rng.End)
		} else {
			anchor := absoluteIdx
			if anchor > len(grid)-1 {
				anchor = len(grid) - 1
			}
			if anchor < 0 {
				anchor = 0
			}
			indices = []int{anchor}
		}

		courseType := ""
		if hasClass {
			courseType = normalizeCourseType(period.String(typeKeys, ""))
		}

		for seq, idx := range indices {
			entryTitle := title
			if len(indices) > 1 {
				// disambiguate split periods visually
				entryTitle = fmt.Sprintf("%s (%d/%d)", title, seq+1, len(indices))
			}
			classes[idx] = ClassEntry{
				SlotIndex:   idx,
				Time:        grid[idx].Label,
				CourseCode:  period.String(codeKeys, ""),
				CourseTitle: entryTitle,
				RoomNo:      period.String(roomKeys, ""),
				CourseType:  courseType,
				Slot:        period.String(slotKeys, ""),
				IsClass:     hasClass,
			}
		}
	}

	return DaySchedule{
		DayOrder: "Day " + day.String(dayKeys, ""),
		Classes:  classes,
	}
}

func (grid Grid) emptyEntry(idx int) ClassEntry {
	return ClassEntry{SlotIndex: idx, Time: grid[idx].Label}
}

// normalizeCourseType folds free-text course types into the two buckets the
// portal actually means: anything starting with "p" (practical, practice)
// is a lab, everything else theory.
func normalizeCourseType(raw string) string {
	if strings.HasPrefix(strings.ToLower(raw), "p") {
		return "Lab"
	}
	return "Theory"
}

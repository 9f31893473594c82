package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// defaultTimes is the canonical period grid the portal timetable is laid
// out against: ten ~50 minute periods between 08:00 and 16:50.
var defaultTimes = []string{
	"08:00 AM - 08:50 AM",
	"08:50 AM - 09:40 AM",
	"09:45 AM - 10:35 AM",
	"10:40 AM - 11:30 AM",
	"11:35 AM - 12:25 PM",
	"12:30 PM - 01:20 PM",
	"01:25 PM - 02:15 PM",
	"02:20 PM - 03:10 PM",
	"03:10 PM - 04:00 PM",
	"04:00 PM - 04:50 PM",
}

type (
	// Slot is one canonical period window, minutes since local midnight.
	Slot struct {
		Label string
		Start int
		End   int
	}

	// Grid is the ordered canonical slot sequence. It is static read-only
	// configuration; tests may substitute an alternate grid.
	Grid []Slot
)

// DefaultGrid returns the standard ten-period grid.
func DefaultGrid() Grid {
	return defaultGrid
}

var defaultGrid = NewGrid(defaultTimes)

var gridLabelRegex = regexp.MustCompile(`(\d{1,2}:\d{2})\D+(\d{1,2}:\d{2})`)

// NewGrid builds a Grid from "HH:MM AM - HH:MM PM" labels.
func NewGrid(labels []string) Grid {
	grid := make(Grid, 0, len(labels))
	for _, label := range labels {
		compact := strings.Join(strings.Fields(label), "")
		var start, end int
		if m := gridLabelRegex.FindStringSubmatch(compact); m != nil {
			if v, ok := ParseClock(m[1]); ok {
				start = v
			}
			if v, ok := ParseClock(m[2]); ok {
				end = v
			}
		}
		if end == 0 && start > 0 {
			end = start + 50
		}
		grid = append(grid, Slot{Label: label, Start: start, End: end})
	}
	return grid
}

var clockRegex = regexp.MustCompile(`^(\d{1,2})(?::?(\d{2}))?$`)

// ParseClock parses "H", "H:MM" or "HMM" with an optional am/pm suffix into
// minutes since midnight. PM adds 12h below noon; 12 AM maps to 0. When the
// meridiem is missing and the hour is 6 or less, PM is assumed: the portal
// omits AM/PM on afternoon periods and the campus schedules nothing before 7.
func ParseClock(text string) (int, bool) {
	trimmed := strings.ToLower(strings.Join(strings.Fields(text), ""))
	if trimmed == "" {
		return 0, false
	}
	hasAM := strings.HasSuffix(trimmed, "am")
	hasPM := strings.HasSuffix(trimmed, "pm")
	core := strings.TrimSuffix(strings.TrimSuffix(trimmed, "am"), "pm")

	m := clockRegex.FindStringSubmatch(core)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	var minutes int
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}

	if hasPM && hours < 12 {
		hours += 12
	}
	if hasAM && hours == 12 {
		hours = 0
	}
	if !hasAM && !hasPM && hours <= 6 {
		hours += 12
	}
	return hours*60 + minutes, true
}

// TimeRange is a half-open [Start, End) window in minutes since midnight.
type TimeRange struct {
	Start int
	End   int
}

var rangeRegex = regexp.MustCompile(`(?i)([0-9: ]+ ?(?:am|pm)?)\s*[-–—to]{1,3}\s*([0-9: ]+ ?(?:am|pm)?)`)

// ParseRange parses "08:00 AM - 09:50 AM" style text. A lone clock value
// yields a degenerate 50-minute range. When the end does not exceed the
// start, 12h is added to the end: ranges crossing noon are often written
// without a meridiem ("11:35 - 12:25") and must not read as negative.
func ParseRange(raw string) (TimeRange, bool) {
	if raw == "" {
		return TimeRange{}, false
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))

	m := rangeRegex.FindStringSubmatch(normalized)
	if m == nil {
		if single, ok := ParseClock(normalized); ok {
			return TimeRange{Start: single, End: single + 50}, true
		}
		return TimeRange{}, false
	}

	start, okStart := ParseClock(m[1])
	end, okEnd := ParseClock(m[2])
	if !okStart || !okEnd {
		return TimeRange{}, false
	}
	if end <= start {
		end += 12 * 60
	}
	return TimeRange{Start: start, End: end}, true
}

// MapRangeToSlots attributes [start, end) to every canonical slot it covers
// by at least half of the slot's own length. Upstream period boundaries
// drift by a few minutes, so exact matching would silently drop classes;
// the majority-overlap rule keeps merged lab periods on the right slots
// without double counting a fractional spillover. When nothing qualifies,
// the single nearest slot by start-time distance is used.
func (grid Grid) MapRangeToSlots(start, end int) []int {
	var hits []int
	for idx, slot := range grid {
		overlap := min(end, slot.End) - max(start, slot.Start)
		if overlap < 0 {
			overlap = 0
		}
		slotLen := slot.End - slot.Start
		if slotLen < 1 {
			slotLen = 1
		}
		if float64(overlap)/float64(slotLen) >= 0.5 {
			hits = append(hits, idx)
		}
	}

	if len(hits) == 0 && len(grid) > 0 {
		nearest, best := 0, -1
		for idx, slot := range grid {
			distance := slot.Start - start
			if distance < 0 {
				distance = -distance
			}
			if best < 0 || distance < best {
				nearest, best = idx, distance
			}
		}
		hits = append(hits, nearest)
	}
	return hits
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

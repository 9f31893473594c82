package calendar

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

type (
	// Day is one calendar entry; Date is the numeric day-of-month as text.
	Day struct {
		Day      string `json:"day"`
		Date     string `json:"date"`
		DayOrder string `json:"dayOrder"`
		Event    string `json:"event"`
	}

	// Month groups days under the portal's month label ("Aug '25").
	Month struct {
		Month string `json:"month"`
		Days  []Day  `json:"days"`
	}

	// Row is one record of the append-only calendar store, the persisted
	// fallback for days the live calendar cannot serve.
	Row struct {
		Date      string
		Month     string
		Day       string
		Order     string
		Event     string
		CreatedAt time.Time
	}
)

var (
	monthKeys = []string{"month", "Month"}
	daysKeys  = []string{"days", "Days"}
	dayKeys   = []string{"day", "Day"}
	dateKeys  = []string{"date", "Date"}
	orderKeys = []string{"dayOrder", "DayOrder", "order", "Order"}
	eventKeys = []string{"event", "Event", "holiday", "Holiday"}
)

// NormalizeMonths maps raw portal month records into the calendar model.
// Months without a label or without days are dropped.
func NormalizeMonths(raw []portal.Record) []Month {
	months := make([]Month, 0, len(raw))
	for _, rec := range raw {
		label := rec.String(monthKeys, "")
		rawDays := rec.Children(daysKeys...)
		if label == "" || len(rawDays) == 0 {
			continue
		}

		days := make([]Day, 0, len(rawDays))
		for _, d := range rawDays {
			days = append(days, Day{
				Day:      d.String(dayKeys, ""),
				Date:     d.String(dateKeys, ""),
				DayOrder: d.String(orderKeys, ""),
				Event:    d.String(eventKeys, ""),
			})
		}
		months = append(months, Month{Month: label, Days: days})
	}
	return months
}

var numericRun = regexp.MustCompile(`[0-9]+`)

// NormalizeDayOrderValue folds a raw day-order text into its canonical form:
// "-" and holiday markers become "0", otherwise the first numeric run wins.
func NormalizeDayOrderValue(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if raw == "-" || strings.Contains(strings.ToLower(raw), "holiday") {
		return "0", true
	}
	if run := numericRun.FindString(raw); run != "" {
		return run, true
	}
	return "", false
}

// monthLabel renders now's month the way the portal labels it: "Aug '25".
func monthLabel(now time.Time) string {
	return now.Format("Jan '06")
}

// ResolveDayOrder finds today's day order. The month whose label matches
// now's "Mon 'YY" form is searched first; the rest follow in original order,
// since the portal sometimes mislabels the current month.
func ResolveDayOrder(months []Month, now time.Time) (string, bool) {
	wanted := core.CollapseString(monthLabel(now))
	today := now.Day()

	ordered := make([]Month, 0, len(months))
	var rest []Month
	for _, month := range months {
		if strings.Contains(core.CollapseString(month.Month), wanted) {
			ordered = append(ordered, month)
		} else {
			rest = append(rest, month)
		}
	}
	ordered = append(ordered, rest...)

	for _, month := range ordered {
		for _, day := range month.Days {
			date, err := strconv.Atoi(strings.TrimSpace(day.Date))
			if err != nil || date != today {
				continue
			}
			if order, ok := NormalizeDayOrderValue(day.DayOrder); ok {
				return order, true
			}
		}
	}
	return "", false
}

// GroupRows folds store rows back into the month shape: months keep their
// first-seen order, days sort by numeric date with unparseable dates last.
func GroupRows(rows []Row) []Month {
	var months []Month
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.Month]
		if !ok {
			i = len(months)
			index[row.Month] = i
			months = append(months, Month{Month: row.Month})
		}
		months[i].Days = append(months[i].Days, Day{
			Day:      row.Day,
			Date:     row.Date,
			DayOrder: row.Order,
			Event:    row.Event,
		})
	}

	for i := range months {
		days := months[i].Days
		sort.SliceStable(days, func(a, b int) bool {
			return dateKey(days[a]) < dateKey(days[b])
		})
	}
	return months
}

func dateKey(d Day) int {
	n, err := strconv.Atoi(strings.TrimSpace(d.Date))
	if err != nil {
		return math.MaxInt32
	}
	return n
}

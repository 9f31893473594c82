package attendance

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/course"
	"github.com/vertexlab/academia/core/portal"
)

type (
	Result struct {
		Records []Record `json:"attendance"`
		Stale   bool     `json:"stale"`
	}

	Service struct {
		client  portal.Client
		courses *course.Service
		logger  core.Logger
	}
)

func NewService(client portal.Client, courses *course.Service, logger core.Logger) *Service {
	return &Service{client: client, courses: courses, logger: logger}
}

var (
	conductedKeys = []string{"hoursConducted", "HoursConducted", "courseConducted", "HoursHeld", "conducted"}
	absentKeys    = []string{"hoursAbsent", "HoursAbsent", "courseAbsent", "absent"}
	percentKeys   = []string{"attendancePercentage", "AttendancePercentage", "courseAttendance"}
	codeKeys      = []string{"courseCode", "CourseCode"}
	titleKeys     = []string{"courseTitle", "CourseTitle"}
	categoryKeys  = []string{"category", "Category", "courseType", "CourseType"}
	slotKeys      = []string{"slot", "Slot", "courseSlot", "CourseSlot"}
	facultyKeys   = []string{"facultyName", "FacultyName", "courseFaculty", "CourseFaculty"}
)

// Attendance fetches the raw attendance rows and derives per-course status.
// The registered course list backfills titles, faculty and the
// theory/practical split where the attendance rows are incomplete.
func (svc *Service) Attendance(ctx context.Context, token string) (Result, error) {
	rec, err := svc.client.Attendance(ctx, token)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching attendance")
	}

	courseList, err := svc.courseLookup(ctx, token)
	if err != nil {
		return Result{}, err
	}

	data := rec.Child("data", "Data")
	rawRows := portal.FirstRecords(rec["attendance"], childField(data, "attendance"))

	records := make([]Record, 0, len(rawRows))
	for _, entry := range rawRows {
		records = append(records, svc.normalizeRow(entry, courseList))
	}
	return Result{Records: records, Stale: rec.Stale()}, nil
}

func (svc *Service) normalizeRow(entry portal.Record, courseList course.List) Record {
	conducted := int(entry.Number(conductedKeys, 0))
	absent := int(entry.Number(absentKeys, 0))

	percent := entry.Number(percentKeys, -1)
	if percent < 0 {
		percent = Percentage(conducted, absent)
	}
	if conducted <= 0 {
		percent = 0
	}

	code := entry.String(codeKeys, "")
	reg, _ := courseList.FindByCode(code)

	title := entry.String(titleKeys, "")
	if title == "" {
		if reg.Title != "" {
			title = reg.Title
		} else {
			title = code
		}
	}

	slotValue, _ := entry.Value(slotKeys...)
	slotParts := portal.ToStringArray(slotValue)
	slot := strings.Join(slotParts, " , ")
	if slot == "" {
		slot = portal.ToString(slotValue, "")
	}
	if strings.HasPrefix(strings.ToUpper(slot), "P") {
		slot = "LAB"
	}

	faculty := entry.String(facultyKeys, "")
	if faculty == "" {
		faculty = reg.Faculty
	}
	// faculty names sometimes arrive suffixed "(Desig: AP/ECE)"
	faculty = strings.TrimSpace(strings.SplitN(faculty, "(", 2)[0])

	return Record{
		CourseCode:  code,
		CourseTitle: title,
		Category:    deriveCategory(entry, reg),
		Slot:        slot,
		Faculty:     faculty,
		Percentage:  core.RoundTo(percent, 2),
		Conducted:   conducted,
		Absent:      absent,
		Status:      Derive(conducted, absent, percent),
	}
}

// deriveCategory folds every practical signal the portal emits (type text,
// lab slots, the registered course type) into theory|practical.
func deriveCategory(entry portal.Record, reg course.Record) string {
	rawType := strings.ToLower(entry.String(categoryKeys, ""))
	rawSlot := strings.ToUpper(entry.String(slotKeys, ""))

	practical := strings.HasPrefix(rawType, "p") ||
		strings.Contains(rawType, "lab") ||
		strings.HasPrefix(rawSlot, "L") ||
		strings.HasPrefix(rawSlot, "P") ||
		reg.IsPractical()
	if practical {
		return "practical"
	}
	return "theory"
}

func (svc *Service) courseLookup(ctx context.Context, token string) (course.List, error) {
	res, err := svc.courses.Courses(ctx, token)
	if err != nil {
		if portal.IsAuthError(err) {
			return nil, err
		}
		// attendance rows still render without registration metadata
		svc.logger.Warn("course lookup unavailable; attendance rows degrade", err)
		return nil, nil
	}
	return res.Courses, nil
}

func childField(r portal.Record, key string) interface{} {
	if r == nil {
		return nil
	}
	return r[key]
}

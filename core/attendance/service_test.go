package attendance

import (
	"context"
	"testing"

	"github.com/vertexlab/academia/core/course"
	"github.com/vertexlab/academia/core/portal"
	testutil "github.com/vertexlab/academia/tests"
)

func newService(client *testutil.FakeClient) *Service {
	logger := testutil.NopLogger{}
	return NewService(client, course.NewService(client, logger), logger)
}

func TestService_Attendance(t *testing.T) {
	client := &testutil.FakeClient{
		Records: map[string]portal.Record{
			"attendance": testutil.Row(
				"stale", true,
				"attendance", testutil.Rows(
					testutil.Row(
						"courseCode", "21CSC201J",
						"courseTitle", "Data Structures",
						"hoursConducted", "20",
						"hoursAbsent", "6",
						"slot", "A",
						"facultyName", "Jane Mary (Desig: AP/CSE)",
					),
					testutil.Row(
						"courseCode", "21CSC203L",
						"hoursConducted", 10,
						"hoursAbsent", 0,
						"slot", "P21-P22",
						"attendancePercentage", "100.00",
					),
				),
			),
			"courses": testutil.Row(
				"courseList", testutil.Rows(
					testutil.Row("courseCode", "21CSC203L", "courseTitle", "Data Structures Lab", "courseType", "Practical", "courseCredit", 1),
				),
			),
		},
	}

	res, err := newService(client).Attendance(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Attendance() error = %v", err)
	}
	if !res.Stale {
		t.Error("Stale = false, want true (upstream served cache)")
	}
	if len(res.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(res.Records))
	}

	theory := res.Records[0]
	if theory.Percentage != 70 {
		t.Errorf("Percentage = %v, want 70 (recomputed)", theory.Percentage)
	}
	if theory.Status != (Status{Kind: StatusRequired, Classes: 4}) {
		t.Errorf("Status = %+v, want required 4", theory.Status)
	}
	if theory.Category != "theory" {
		t.Errorf("Category = %q, want theory", theory.Category)
	}
	if theory.Faculty != "Jane Mary" {
		t.Errorf("Faculty = %q, want designation stripped", theory.Faculty)
	}

	lab := res.Records[1]
	if lab.CourseTitle != "Data Structures Lab" {
		t.Errorf("CourseTitle = %q, want backfilled from course list", lab.CourseTitle)
	}
	if lab.Category != "practical" {
		t.Errorf("Category = %q, want practical", lab.Category)
	}
	if lab.Slot != "LAB" {
		t.Errorf("Slot = %q, want LAB", lab.Slot)
	}
	if lab.Status != (Status{Kind: StatusMargin, Classes: 3}) {
		t.Errorf("Status = %+v, want margin 3", lab.Status)
	}
}

func TestService_Attendance_sessionErrorsPropagate(t *testing.T) {
	authErr := portal.NewStatusError(401, "session expired")
	client := &testutil.FakeClient{Errs: map[string]error{"attendance": authErr}}

	_, err := newService(client).Attendance(context.Background(), "tok")
	if !portal.IsAuthError(err) {
		t.Fatalf("Attendance() error = %v, want wrapped 401", err)
	}
}

func TestService_Attendance_degradesWithoutCourseList(t *testing.T) {
	client := &testutil.FakeClient{
		Records: map[string]portal.Record{
			"attendance": testutil.Row("attendance", testutil.Rows(
				testutil.Row("courseCode", "21PDM101L", "hoursConducted", 4, "hoursAbsent", 1),
			)),
		},
		Errs: map[string]error{"courses": portal.NewStatusError(500, "scraper down")},
	}

	res, err := newService(client).Attendance(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Attendance() error = %v, want degraded success", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(res.Records))
	}
	if got := res.Records[0].CourseTitle; got != "21PDM101L" {
		t.Errorf("CourseTitle = %q, want code fallback", got)
	}
}

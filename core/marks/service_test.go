package marks

import (
	"context"
	"testing"

	"github.com/vertexlab/academia/core/course"
	"github.com/vertexlab/academia/core/portal"
	testutil "github.com/vertexlab/academia/tests"
)

func TestService_Marks(t *testing.T) {
	client := &testutil.FakeClient{
		Records: map[string]portal.Record{
			"marks": testutil.Row(
				"marks", testutil.Rows(
					testutil.Row(
						"courseCode", "21CSC201J",
						"courseType", "Theory",
						"testPerformance", testutil.Rows(
							testutil.Row("test", "CLAT-1", "marks", testutil.Row("scored", "22.5", "total", 25)),
							testutil.Row("test", "CLAT-2", "obtained", 18, "maxMark", 25),
						),
						"overall", testutil.Row("scored", 40.5, "total", 50),
					),
					testutil.Row(
						"course", "21CSC203L",
						"category", "Practical",
						"marks", testutil.Rows(
							testutil.Row("exam", "Experiment 1", "obtained", 9, "maxMark", 10),
							testutil.Row("exam", "Experiment 2", "obtained", 8, "maxMark", 10),
						),
						"credits", 1,
					),
					testutil.Row("courseType", "Theory"), // no code, dropped
				),
			),
			"courses": testutil.Row(
				"courseList", testutil.Rows(
					testutil.Row("courseCode", "21CSC201J", "courseCredit", 4),
				),
			),
		},
	}
	logger := testutil.NopLogger{}
	svc := NewService(client, course.NewService(client, logger), logger)

	res, err := svc.Marks(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Marks() error = %v", err)
	}
	if len(res.Marks) != 2 {
		t.Fatalf("len(Marks) = %d, want 2 (code-less row dropped)", len(res.Marks))
	}

	theory := res.Marks[0]
	if theory.Credits != 4 {
		t.Errorf("Credits = %v, want 4 from course list", theory.Credits)
	}
	if len(theory.Marks) != 2 {
		t.Fatalf("len(Marks) = %d, want 2 attempts", len(theory.Marks))
	}
	if theory.Marks[0] != (ExamMark{Exam: "CLAT-1", Obtained: 22.5, MaxMark: 25}) {
		t.Errorf("Marks[0] = %+v, want nested scored/total resolved", theory.Marks[0])
	}
	if theory.Total != (Total{Obtained: 40.5, MaxMark: 50}) {
		t.Errorf("Total = %+v, want overall record used", theory.Total)
	}
	if theory.Category != "theory" {
		t.Errorf("Category = %q, want theory", theory.Category)
	}

	practical := res.Marks[1]
	if practical.Category != "practical" {
		t.Errorf("Category = %q, want practical", practical.Category)
	}
	if practical.Credits != 1 {
		t.Errorf("Credits = %v, want 1 read off the row", practical.Credits)
	}
	if practical.Total != (Total{Obtained: 17, MaxMark: 20}) {
		t.Errorf("Total = %+v, want synthesized from attempts", practical.Total)
	}
}

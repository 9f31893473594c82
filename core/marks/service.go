package marks

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
		Marks []Mark `json:"marks"`
		Stale bool   `json:"stale"`
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
	codeKeys     = []string{"courseCode", "course", "CourseCode"}
	typeKeys     = []string{"courseType", "category", "CourseType"}
	sourceKeys   = []string{"marks", "testPerformance", "TestPerformance"}
	obtainedKeys = []string{"obtained", "score"}
	scoredKeys   = []string{"scored", "Scored"}
	maxKeys      = []string{"maxMark", "total"}
	totalKeys    = []string{"total", "Total"}
	examKeys     = []string{"exam", "test", "Test"}
	creditKeys   = []string{"credits", "Credit"}
)

// Marks fetches the internal-assessment rows and normalizes them into
// per-course mark lists with totals. Registered course credits backfill rows
// that omit them.
func (svc *Service) Marks(ctx context.Context, token string) (Result, error) {
	rec, err := svc.client.Marks(ctx, token)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching marks")
	}

	courseList, err := svc.courseLookup(ctx, token)
	if err != nil {
		return Result{}, err
	}

	data := rec.Child("data", "Data")
	rawRows := portal.FirstRecords(rec["marks"], childField(data, "marks"), childField(data, "markList"))

	list := make([]Mark, 0, len(rawRows))
	for _, entry := range rawRows {
		mark, ok := normalizeRow(entry, courseList)
		if !ok {
			continue
		}
		list = append(list, mark)
	}
	return Result{Marks: list, Stale: rec.Stale()}, nil
}

func normalizeRow(entry portal.Record, courseList course.List) (Mark, bool) {
	code := entry.String(codeKeys, "")
	if code == "" {
		return Mark{}, false
	}

	mark := Mark{
		Course:   code,
		Category: normalizeCategory(entry.String(typeKeys, "")),
		Marks:    normalizeAttempts(entry),
		Total:    normalizeTotal(entry),
	}

	mark.Credits = courseList.CreditByCode(code)
	if mark.Credits == 0 {
		mark.Credits = entry.Number(creditKeys, 0)
	}

	// rows with no attempts at all still synthesize a total from the sum
	if mark.Total.MaxMark == 0 && len(mark.Marks) > 0 {
		for _, attempt := range mark.Marks {
			mark.Total.Obtained += attempt.Obtained
			mark.Total.MaxMark += attempt.MaxMark
		}
	}
	return mark, true
}

func normalizeAttempts(entry portal.Record) []ExamMark {
	source, _ := entry.Value(sourceKeys...)
	rawAttempts := portal.AsRecords(source)

	attempts := make([]ExamMark, 0, len(rawAttempts))
	for _, raw := range rawAttempts {
		obtained := raw.Number(obtainedKeys, -1)
		if obtained < 0 {
			obtained = raw.Child("marks", "Marks").Number(scoredKeys, 0)
		}
		max := raw.Number(maxKeys, -1)
		if max < 0 {
			max = raw.Child("marks", "Marks").Number(totalKeys, 0)
		}
		attempts = append(attempts, ExamMark{
			Exam:     raw.String(examKeys, ""),
			Obtained: obtained,
			MaxMark:  max,
		})
	}
	return attempts
}

func normalizeTotal(entry portal.Record) Total {
	if overall := entry.Child("overall", "Overall"); overall != nil {
		return Total{
			Obtained: overall.Number(scoredKeys, 0),
			MaxMark:  overall.Number(totalKeys, 0),
		}
	}
	if total := entry.Child("total", "Total"); total != nil {
		return Total{
			Obtained: total.Number(obtainedKeys, 0),
			MaxMark:  total.Number(maxKeys, 0),
		}
	}
	return Total{}
}

// normalizeCategory folds the portal's course-type spellings into
// theory|practical.
func normalizeCategory(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "p") || strings.Contains(raw, "lab") {
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
		// marks rows still render, with credits read off the row itself
		svc.logger.Warn("course lookup unavailable; mark credits degrade", err)
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

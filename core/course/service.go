package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

type (
	Result struct {
		Courses List   `json:"courseList"`
		Batch   string `json:"batch"`
		Stale   bool   `json:"stale"`
	}

	Service struct {
		client portal.Client
		logger core.Logger
	}
)

func NewService(client portal.Client, logger core.Logger) *Service {
	return &Service{client: client, logger: logger}
}

var batchKeys = []string{"batch", "Batch"}

// Courses fetches and normalizes the registered course list. Rows without a
// course code are dropped: they cannot be keyed and belong to no engine.
func (svc *Service) Courses(ctx context.Context, token string) (Result, error) {
	rec, err := svc.client.Courses(ctx, token)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching courses")
	}

	data := rec.Child("data", "Data")
	rawList := portal.FirstRecords(rec["courseList"], rec["courses"], recordField(data, "courseList"))

	courses := make(List, 0, len(rawList))
	for _, raw := range rawList {
		norm := Normalize(raw)
		if norm.Code == "" {
			continue
		}
		courses = append(courses, norm)
	}

	batch := rec.String(batchKeys, "")
	if batch == "" {
		batch = data.String(batchKeys, "")
	}
	return Result{Courses: courses, Batch: batch, Stale: rec.Stale()}, nil
}

func recordField(r portal.Record, key string) interface{} {
	if r == nil {
		return nil
	}
	return r[key]
}

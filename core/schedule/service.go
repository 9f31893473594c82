package schedule

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

type (
	// Result is a normalized timetable fetch. Stale means the upstream
	// substituted cached data for a live scrape: a soft-degradation signal,
	// distinct from a hard error.
	Result struct {
		Days  []DaySchedule `json:"timetable"`
		Stale bool          `json:"stale"`
	}

	Service struct {
		client portal.Client
		grid   Grid
		logger core.Logger
	}
)

func NewService(client portal.Client, logger core.Logger) *Service {
	return &Service{client: client, grid: DefaultGrid(), logger: logger}
}

// NewServiceWithGrid is used by tests to substitute an alternate slot grid.
func NewServiceWithGrid(client portal.Client, logger core.Logger, grid Grid) *Service {
	return &Service{client: client, grid: grid, logger: logger}
}

// Timetable fetches and normalizes the student's full rotating timetable.
func (svc *Service) Timetable(ctx context.Context, token string) (Result, error) {
	rec, err := svc.client.Timetable(ctx, token)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching timetable")
	}

	rawDays := rec.Children("schedule", "Schedule")
	days := make([]DaySchedule, 0, len(rawDays))
	for _, day := range rawDays {
		days = append(days, svc.grid.NormalizeDay(day))
	}
	return Result{Days: days, Stale: rec.Stale()}, nil
}

// Grid exposes the canonical slot table for presentation timelines.
func (svc *Service) Grid() Grid {
	return svc.grid
}

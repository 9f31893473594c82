package calendar

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vertexlab/academia/core"
	"github.com/vertexlab/academia/core/portal"
)

// ErrDayOrderUnknown reports that no source could place today on the
// academic calendar. The resolver still answers "0" so callers render a
// no-classes day instead of nothing.
var ErrDayOrderUnknown = errors.New("unable to determine day order")

// Repository is the append-only calendar store, the persisted fallback fed by
// the backfill command.
type Repository interface {
	RowsCreatedBetween(ctx context.Context, from, to time.Time) ([]Row, error)
	InsertRows(ctx context.Context, rows []Row) error
}

type (
	Result struct {
		Months []Month `json:"calendar"`
		Stale  bool    `json:"stale"`
	}

	DayOrderResult struct {
		DayOrder string `json:"dayOrder"`
		Stale    bool   `json:"stale"`
	}

	Service struct {
		client portal.Client
		repo   Repository
		logger core.Logger
	}
)

// for mocking
var nowFunc = time.Now

func NewService(client portal.Client, repo Repository, logger core.Logger) *Service {
	return &Service{client: client, repo: repo, logger: logger}
}

// Calendar fetches and normalizes the live academic calendar.
func (svc *Service) Calendar(ctx context.Context, token string) (Result, error) {
	rec, err := svc.client.Calendar(ctx, token)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching calendar")
	}
	months := NormalizeMonths(rec.Children("calendar", "Calendar", "months", "Months"))
	return Result{Months: months, Stale: rec.Stale()}, nil
}

// source is one attempt in the day-order fallback chain; a source is usable
// when it yields at least one month.
type source struct {
	name  string
	fetch func(ctx context.Context) ([]Month, bool, error)
}

// DayOrder resolves today's day order against the live calendar, then the
// persisted store. Sources run strictly in order; the fallback never fires
// speculatively, so store data cannot mask a live-source regression. When
// every source misses, the result is "0" with ErrDayOrderUnknown.
func (svc *Service) DayOrder(ctx context.Context, token string) (DayOrderResult, error) {
	chain := []source{
		{name: "live calendar", fetch: func(ctx context.Context) ([]Month, bool, error) {
			res, err := svc.Calendar(ctx, token)
			return res.Months, res.Stale, err
		}},
		{name: "calendar store", fetch: svc.storeMonths},
	}

	now := nowFunc()
	for _, src := range chain {
		months, stale, err := src.fetch(ctx)
		if err != nil {
			if portal.IsAuthError(err) {
				return DayOrderResult{}, err
			}
			svc.logger.Warn("day order source failed: "+src.name, err)
			continue
		}
		if len(months) == 0 {
			continue
		}
		if order, ok := ResolveDayOrder(months, now); ok {
			return DayOrderResult{DayOrder: order, Stale: stale}, nil
		}
	}
	return DayOrderResult{DayOrder: "0"}, ErrDayOrderUnknown
}

// storeMonths reads the fallback rows appended during today's local
// 00:00-23:59 window; older rows describe a stale calendar snapshot.
func (svc *Service) storeMonths(ctx context.Context) ([]Month, bool, error) {
	if svc.repo == nil {
		return nil, false, nil
	}

	now := nowFunc()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	rows, err := svc.repo.RowsCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, false, errors.Wrap(err, "querying calendar store")
	}
	// store data is a cached snapshot, flag it
	return GroupRows(rows), true, nil
}

// Backfill copies the live calendar into the store, stamping every row with
// now so today's window can find it.
func (svc *Service) Backfill(ctx context.Context, token string) (int, error) {
	if svc.repo == nil {
		return 0, errors.New("no calendar store configured")
	}

	res, err := svc.Calendar(ctx, token)
	if err != nil {
		return 0, err
	}

	now := nowFunc()
	var rows []Row
	for _, month := range res.Months {
		for _, day := range month.Days {
			rows = append(rows, Row{
				Date:      day.Date,
				Month:     month.Month,
				Day:       day.Day,
				Order:     day.DayOrder,
				Event:     day.Event,
				CreatedAt: now,
			})
		}
	}
	if len(rows) == 0 {
		return 0, errors.New("live calendar returned no rows")
	}

	if err := svc.repo.InsertRows(ctx, rows); err != nil {
		return 0, errors.Wrap(err, "inserting calendar rows")
	}
	return len(rows), nil
}

package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/vertexlab/academia/core/calendar"
)

// calendarRepository persists the gocal append-log backing the day-order
// fallback. Rows are only ever inserted and range-scanned, never updated.
type calendarRepository struct {
	db *sqlx.DB
}

var _ calendar.Repository = (*calendarRepository)(nil)

func NewCalendarRepository(db *sqlx.DB) *calendarRepository {
	return &calendarRepository{db: db}
}

// gocalRow mirrors the gocal table; the scraper leaves most columns nullable.
type gocalRow struct {
	ID        int64       `db:"id"`
	Date      null.String `db:"date"`
	Month     null.String `db:"month"`
	Day       null.String `db:"day"`
	Order     null.String `db:"order"`
	Event     null.String `db:"event"`
	CreatedAt time.Time   `db:"created_at"`
}

func (repo *calendarRepository) RowsCreatedBetween(ctx context.Context, from, to time.Time) ([]calendar.Row, error) {
	const q = `
		SELECT id, date, month, day, "order", event, created_at
		FROM gocal
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY id`

	var raw []gocalRow
	if err := repo.db.SelectContext(ctx, &raw, q, from, to); err != nil {
		return nil, errors.Wrap(err, "querying gocal rows")
	}

	rows := make([]calendar.Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, calendar.Row{
			Date:      r.Date.String,
			Month:     r.Month.String,
			Day:       r.Day.String,
			Order:     r.Order.String,
			Event:     r.Event.String,
			CreatedAt: r.CreatedAt,
		})
	}
	return rows, nil
}

func (repo *calendarRepository) InsertRows(ctx context.Context, rows []calendar.Row) error {
	const q = `
		INSERT INTO gocal (date, month, day, "order", event, created_at)
		VALUES (:date, :month, :day, :order, :event, :created_at)`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		raw := gocalRow{
			Date:      null.NewString(row.Date, row.Date != ""),
			Month:     null.NewString(row.Month, row.Month != ""),
			Day:       null.NewString(row.Day, row.Day != ""),
			Order:     null.NewString(row.Order, row.Order != ""),
			Event:     null.NewString(row.Event, row.Event != ""),
			CreatedAt: row.CreatedAt,
		}
		if _, err := tx.NamedExecContext(ctx, q, raw); err != nil {
			return errors.Wrap(err, "inserting gocal row")
		}
	}
	return errors.Wrap(tx.Commit(), "committing gocal rows")
}

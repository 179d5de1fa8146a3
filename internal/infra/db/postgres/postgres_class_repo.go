package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/repository"
)

var _ repository.ScheduledClassRepository = (*classRepo)(nil)
var _ repository.AvailabilityRepository = (*availabilityRepo)(nil)

type classRepo struct{ pool *pgxpool.Pool }

func NewClassRepo(pool *pgxpool.Pool) *classRepo {
	return &classRepo{pool: pool}
}

func (r *classRepo) Save(ctx context.Context, tx repository.Tx, c *model.ScheduledClass) error {
	const q = `
INSERT INTO scheduled_classes (id, user_id, scheduled_date, scheduled_time, meet_link, status, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  scheduled_date=$3, scheduled_time=$4, meet_link=$5, status=$6, notes=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.UserID, c.ScheduledDate, c.ScheduledTime, c.MeetLink, c.Status, c.Notes, c.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *classRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.ScheduledClass, error) {
	const q = `
SELECT id, user_id, scheduled_date, scheduled_time, meet_link, status, notes, created_at
  FROM scheduled_classes
 WHERE user_id=$1
 ORDER BY scheduled_date ASC, scheduled_time ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.ScheduledClass
	for rows.Next() {
		c := &model.ScheduledClass{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.ScheduledDate, &c.ScheduledTime, &c.MeetLink, &c.Status, &c.Notes, &c.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *classRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.ClassStatus) error {
	const q = `UPDATE scheduled_classes SET status=$2 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

type availabilityRepo struct{ pool *pgxpool.Pool }

func NewAvailabilityRepo(pool *pgxpool.Pool) *availabilityRepo {
	return &availabilityRepo{pool: pool}
}

func (r *availabilityRepo) ListSlots(ctx context.Context, tx repository.Tx) ([]*model.Availability, error) {
	const q = `
SELECT id, day_of_week, time_slot, is_available
  FROM availability
 ORDER BY day_of_week ASC, time_slot ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Availability
	for rows.Next() {
		a := &model.Availability{}
		if err := rows.Scan(&a.ID, &a.DayOfWeek, &a.TimeSlot, &a.IsAvailable); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *availabilityRepo) ListBlockedDates(ctx context.Context, tx repository.Tx) ([]*model.BlockedDate, error) {
	const q = `
SELECT id, blocked_date, reason, created_at
  FROM blocked_dates
 WHERE blocked_date >= CURRENT_DATE
 ORDER BY blocked_date ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.BlockedDate
	for rows.Next() {
		b := &model.BlockedDate{}
		if err := rows.Scan(&b.ID, &b.BlockedDate, &b.Reason, &b.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

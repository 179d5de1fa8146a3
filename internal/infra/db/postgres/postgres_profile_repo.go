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

var _ repository.ProfileRepository = (*profileRepo)(nil)

type profileRepo struct{ pool *pgxpool.Pool }

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

const profileColumns = `id, email, full_name, is_admin, free_class_used, classes_remaining, current_plan, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	p := &model.Profile{}
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.IsAdmin, &p.FreeClassUsed, &p.ClassesRemaining, &p.CurrentPlan, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *profileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	const q = `
INSERT INTO profiles (id, email, full_name, is_admin, free_class_used, classes_remaining, current_plan, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
ON CONFLICT (id) DO UPDATE SET
  email=$2, full_name=$3, is_admin=$4, free_class_used=$5, classes_remaining=$6, current_plan=$7, updated_at=NOW();`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Email, p.FullName, p.IsAdmin, p.FreeClassUsed, p.ClassesRemaining, p.CurrentPlan, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *profileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProfile(row)
}

// GrantClasses applies a plan purchase to the profile in one statement:
// credits stack on top of whatever remains, the plan display name is
// recorded, and the free-trial flag is consumed.
func (r *profileRepo) GrantClasses(ctx context.Context, tx repository.Tx, userID string, classes int, planName string) error {
	const q = `
UPDATE profiles
   SET classes_remaining = classes_remaining + $2,
       current_plan = $3,
       free_class_used = TRUE,
       updated_at = NOW()
 WHERE id = $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, classes, planName)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ConsumeClass is a conditional decrement: the WHERE guard keeps the counter
// from going negative under concurrent bookings.
func (r *profileRepo) ConsumeClass(ctx context.Context, tx repository.Tx, userID string, markFreeClassUsed bool) (bool, error) {
	const q = `
UPDATE profiles
   SET classes_remaining = classes_remaining - 1,
       free_class_used = free_class_used OR $2,
       updated_at = NOW()
 WHERE id = $1
   AND classes_remaining > 0;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, markFreeClassUsed)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

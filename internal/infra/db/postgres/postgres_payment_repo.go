package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, plan_id, amount, currency, status, provider, provider_preference_id, provider_payment_id, payment_method, status_detail, external_id, processed_at, created_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.Currency, &p.Status, &p.Provider, &p.ProviderPreferenceID, &p.ProviderPaymentID, &p.PaymentMethod, &p.StatusDetail, &p.ExternalID, &p.ProcessedAt, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, plan_id, amount, currency, status, provider, provider_preference_id, provider_payment_id, payment_method, status_detail, external_id, processed_at, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  status=$6, provider_preference_id=$8, provider_payment_id=$9, payment_method=$10, status_detail=$11, external_id=$12, processed_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.PlanID, p.Amount, p.Currency, p.Status, p.Provider, p.ProviderPreferenceID, p.ProviderPaymentID, p.PaymentMethod, p.StatusDetail, p.ExternalID, p.ProcessedAt, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// MarkProcessed claims the grant for a payment. The WHERE clause makes the
// claim exclusive: only the call that flips processed_at from NULL reports
// true, every later call sees zero rows affected.
func (r *paymentRepo) MarkProcessed(ctx context.Context, tx repository.Tx, id string, at time.Time) (bool, error) {
	const q = `UPDATE payments SET processed_at=$2 WHERE id=$1 AND processed_at IS NULL;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, at)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) UpdateGatewayState(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, providerPaymentID, paymentMethod, statusDetail string) error {
	const q = `
UPDATE payments
   SET status=$2,
       provider_payment_id=COALESCE(NULLIF($3,''), provider_payment_id),
       external_id=COALESCE(NULLIF($3,''), external_id),
       payment_method=COALESCE(NULLIF($4,''), payment_method),
       status_detail=COALESCE(NULLIF($5,''), status_detail)
 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status, providerPaymentID, paymentMethod, statusDetail)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) SetPreference(ctx context.Context, tx repository.Tx, id, preferenceID string) error {
	const q = `UPDATE payments SET provider_preference_id=$2 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, preferenceID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

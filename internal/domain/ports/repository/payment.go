package repository

import (
	"context"
	"time"

	"tutoring-platform/internal/domain/model"
)

// PaymentRepository is the port for local payment records.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)

	// MarkProcessed is the exclusive gate for entitlement granting: it sets
	// processed_at only where it is still NULL and reports whether this call
	// won the write. Callers must run the rest of the grant only when it
	// returns true, inside the same transaction.
	MarkProcessed(ctx context.Context, tx Tx, id string, at time.Time) (bool, error)

	// UpdateGatewayState refreshes the synced status and provider surface
	// fields (payment id, method, status detail) without touching
	// processed_at.
	UpdateGatewayState(ctx context.Context, tx Tx, id string, status model.PaymentStatus, providerPaymentID, paymentMethod, statusDetail string) error

	// SetPreference records the checkout preference created for this payment.
	SetPreference(ctx context.Context, tx Tx, id, preferenceID string) error

	// ListPendingOlderThan feeds the stale-payment reconciler.
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
}

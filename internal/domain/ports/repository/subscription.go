package repository

import (
	"context"

	"tutoring-platform/internal/domain/model"
)

// SubscriptionRepository is the port for subscription periods.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)

	// ExpireActiveByUser transitions every active subscription of the user to
	// expired and returns how many rows changed. Runs before inserting the
	// replacement so two active rows never coexist.
	ExpireActiveByUser(ctx context.Context, tx Tx, userID string) (int, error)

	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Subscription, error)
}

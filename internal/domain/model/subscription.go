package model

import (
	"time"

	"tutoring-platform/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is one billing period of a plan for one user. A grant expires
// any prior active row before inserting a new one, so after every successful
// grant a user holds at most one active subscription.
type Subscription struct {
	ID                 string
	UserID             string
	PlanID             string
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CreatedAt          time.Time
}

// NewSubscription creates an active subscription covering one calendar month
// starting at now.
func NewSubscription(id, userID, planID string, now time.Time) (*Subscription, error) {
	if id == "" || userID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:                 id,
		UserID:             userID,
		PlanID:             planID,
		Status:             SubscriptionStatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:          now,
	}, nil
}

package repository

import (
	"context"

	"tutoring-platform/internal/domain/model"
)

// ScheduledClassRepository is the port for booked lessons.
type ScheduledClassRepository interface {
	Save(ctx context.Context, tx Tx, c *model.ScheduledClass) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.ScheduledClass, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.ClassStatus) error
}

// AvailabilityRepository serves the weekly slot grid and blocked dates the
// booking UI renders.
type AvailabilityRepository interface {
	ListSlots(ctx context.Context, tx Tx) ([]*model.Availability, error)
	ListBlockedDates(ctx context.Context, tx Tx) ([]*model.BlockedDate, error)
}

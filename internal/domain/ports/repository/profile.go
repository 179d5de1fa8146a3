package repository

import (
	"context"

	"tutoring-platform/internal/domain/model"
)

// ProfileRepository is the port for student profiles.
type ProfileRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Profile) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Profile, error)

	// GrantClasses adds a plan's class allotment to the profile, records the
	// plan name, and consumes the free-trial flag. Runs inside the grant
	// transaction.
	GrantClasses(ctx context.Context, tx Tx, userID string, classes int, planName string) error

	// ConsumeClass decrements classes_remaining by one, refusing to go
	// negative; reports whether a class was actually consumed. When
	// markFreeClassUsed is set the free-trial flag is consumed too.
	ConsumeClass(ctx context.Context, tx Tx, userID string, markFreeClassUsed bool) (bool, error)
}

package model

import "time"

// Profile is the student record attached to an identity-provider user.
// ClassesRemaining is credited by the payment core and debited by bookings.
type Profile struct {
	ID               string // identity provider user id
	Email            string
	FullName         string
	IsAdmin          bool
	FreeClassUsed    bool
	ClassesRemaining int
	CurrentPlan      string // plan display name; empty until first paid plan
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

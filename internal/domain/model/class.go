package model

import "time"

type ClassStatus string

const (
	ClassStatusScheduled ClassStatus = "scheduled"
	ClassStatusCompleted ClassStatus = "completed"
	ClassStatusCancelled ClassStatus = "cancelled"
)

// ScheduledClass is one booked 60-minute lesson with its meeting link.
type ScheduledClass struct {
	ID            string
	UserID        string
	ScheduledDate string // YYYY-MM-DD
	ScheduledTime string // HH:MM
	MeetLink      string
	Status        ClassStatus
	Notes         string
	CreatedAt     time.Time
}

// Availability marks a weekly recurring slot the teacher offers.
type Availability struct {
	ID          string
	DayOfWeek   int // 0 = Sunday
	TimeSlot    string
	IsAvailable bool
}

// BlockedDate removes a whole day from the bookable calendar.
type BlockedDate struct {
	ID          string
	BlockedDate string // YYYY-MM-DD
	Reason      string
	CreatedAt   time.Time
}

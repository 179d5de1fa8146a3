package adapter

import "context"

// MeetingRequest describes the lesson slot a meeting is created for.
type MeetingRequest struct {
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	StudentEmail string
	StudentName  string
}

// Meeting is the provider-side event plus the join link stored with the
// scheduled class.
type Meeting struct {
	EventID  string
	JoinLink string
}

// MeetingScheduler is the hex port for the calendar/meeting provider.
type MeetingScheduler interface {
	CreateMeeting(ctx context.Context, req MeetingRequest) (*Meeting, error)
}

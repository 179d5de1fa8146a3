package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ BookingUseCase = (*bookingUC)(nil)

type BookingUseCase interface {
	// Book schedules one lesson for the user at date/time, creating the
	// meeting link and consuming one class credit.
	Book(ctx context.Context, userID, date, timeSlot string) (*model.ScheduledClass, error)
	ListClasses(ctx context.Context, userID string) ([]*model.ScheduledClass, error)
	Availability(ctx context.Context) ([]*model.Availability, []*model.BlockedDate, error)
}

type bookingUC struct {
	profiles     repository.ProfileRepository
	classes      repository.ScheduledClassRepository
	availability repository.AvailabilityRepository
	meetings     adapter.MeetingScheduler
	log          *zerolog.Logger
}

func NewBookingUseCase(
	profiles repository.ProfileRepository,
	classes repository.ScheduledClassRepository,
	availability repository.AvailabilityRepository,
	meetings adapter.MeetingScheduler,
	logger *zerolog.Logger,
) *bookingUC {
	return &bookingUC{
		profiles:     profiles,
		classes:      classes,
		availability: availability,
		meetings:     meetings,
		log:          logger,
	}
}

func (u *bookingUC) Book(ctx context.Context, userID, date, timeSlot string) (*model.ScheduledClass, error) {
	if userID == "" || date == "" || timeSlot == "" {
		return nil, domain.ErrInvalidArgument
	}

	profile, err := u.profiles.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile.ClassesRemaining <= 0 {
		return nil, domain.ErrNoClassesRemaining
	}

	meeting, err := u.meetings.CreateMeeting(ctx, adapter.MeetingRequest{
		Date:         date,
		Time:         timeSlot,
		StudentEmail: profile.Email,
		StudentName:  profile.FullName,
	})
	if err != nil {
		return nil, err
	}

	class := &model.ScheduledClass{
		ID:            uuid.NewString(),
		UserID:        profile.ID,
		ScheduledDate: date,
		ScheduledTime: timeSlot,
		MeetLink:      meeting.JoinLink,
		Status:        model.ClassStatusScheduled,
		CreatedAt:     time.Now(),
	}
	if err := u.classes.Save(ctx, nil, class); err != nil {
		return nil, err
	}

	// Booking the last remaining class without a paid plan is what consumes
	// the one-time free trial.
	markFree := profile.ClassesRemaining == 1 && profile.CurrentPlan == ""
	consumed, err := u.profiles.ConsumeClass(ctx, nil, profile.ID, markFree)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// A concurrent booking used the last credit between the read and
		// the conditional decrement. The class row stays; marking it
		// cancelled here keeps the ledger honest.
		_ = u.classes.UpdateStatus(ctx, nil, class.ID, model.ClassStatusCancelled)
		return nil, domain.ErrNoClassesRemaining
	}

	u.log.Info().Str("user_id", profile.ID).Str("date", date).Str("time", timeSlot).Msg("class booked")
	return class, nil
}

func (u *bookingUC) ListClasses(ctx context.Context, userID string) ([]*model.ScheduledClass, error) {
	return u.classes.ListByUser(ctx, nil, userID)
}

func (u *bookingUC) Availability(ctx context.Context) ([]*model.Availability, []*model.BlockedDate, error) {
	slots, err := u.availability.ListSlots(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	blocked, err := u.availability.ListBlockedDates(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return slots, blocked, nil
}

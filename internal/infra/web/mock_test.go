//go:build !integration

package web

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/domain/ports/repository"
	"tutoring-platform/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// --- Mock Use Cases ---

type mockPaymentUC struct {
	CheckoutFunc  func(ctx context.Context, userID, planID string) (*model.Payment, string, error)
	ReconcileFunc func(ctx context.Context, providerPaymentID, expectedUserID string) (*usecase.ReconcileOutcome, error)

	mu             sync.Mutex
	ReconcileCalls []struct{ ProviderPaymentID, ExpectedUserID string }
}

var _ usecase.PaymentUseCase = (*mockPaymentUC)(nil)

func (m *mockPaymentUC) Checkout(ctx context.Context, userID, planID string) (*model.Payment, string, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, userID, planID)
	}
	return &model.Payment{ID: "pay_test", UserID: userID, PlanID: planID}, "https://mp.example/checkout", nil
}

func (m *mockPaymentUC) Reconcile(ctx context.Context, providerPaymentID, expectedUserID string) (*usecase.ReconcileOutcome, error) {
	m.mu.Lock()
	m.ReconcileCalls = append(m.ReconcileCalls, struct{ ProviderPaymentID, ExpectedUserID string }{providerPaymentID, expectedUserID})
	m.mu.Unlock()
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, providerPaymentID, expectedUserID)
	}
	return &usecase.ReconcileOutcome{PaymentID: "pay_test", Status: model.PaymentStatusApproved, Granted: true}, nil
}

type mockBookingUC struct {
	BookFunc func(ctx context.Context, userID, date, timeSlot string) (*model.ScheduledClass, error)
}

var _ usecase.BookingUseCase = (*mockBookingUC)(nil)

func (m *mockBookingUC) Book(ctx context.Context, userID, date, timeSlot string) (*model.ScheduledClass, error) {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, userID, date, timeSlot)
	}
	return &model.ScheduledClass{ID: "class-1", UserID: userID, ScheduledDate: date, ScheduledTime: timeSlot, MeetLink: "https://meet.example/abc", Status: model.ClassStatusScheduled}, nil
}

func (m *mockBookingUC) ListClasses(ctx context.Context, userID string) ([]*model.ScheduledClass, error) {
	return []*model.ScheduledClass{}, nil
}

func (m *mockBookingUC) Availability(ctx context.Context) ([]*model.Availability, []*model.BlockedDate, error) {
	return []*model.Availability{{ID: "a1", DayOfWeek: 1, TimeSlot: "10:00", IsAvailable: true}}, nil, nil
}

type mockPlanUC struct {
	plans []*model.Plan
}

var _ usecase.PlanUseCase = (*mockPlanUC)(nil)

func (m *mockPlanUC) ListActive(ctx context.Context) ([]*model.Plan, error) { return m.plans, nil }

func (m *mockPlanUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanUC) Save(ctx context.Context, plan *model.Plan) error {
	m.plans = append(m.plans, plan)
	return nil
}

type mockResourceUC struct {
	AssignFunc func(ctx context.Context, studentID, resourceID string) error
}

var _ usecase.ResourceUseCase = (*mockResourceUC)(nil)

func (m *mockResourceUC) ListAll(ctx context.Context) ([]*model.Resource, error) {
	return []*model.Resource{}, nil
}

func (m *mockResourceUC) ListForStudent(ctx context.Context, studentID string) ([]*model.StudentResource, error) {
	return []*model.StudentResource{}, nil
}

func (m *mockResourceUC) Assign(ctx context.Context, studentID, resourceID string) error {
	if m.AssignFunc != nil {
		return m.AssignFunc(ctx, studentID, resourceID)
	}
	return nil
}

type mockChatUC struct {
	ReplyFunc func(ctx context.Context, messages []adapter.Message) (string, error)
}

var _ usecase.ChatUseCase = (*mockChatUC)(nil)

func (m *mockChatUC) Reply(ctx context.Context, messages []adapter.Message) (string, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, messages)
	}
	return "hola", nil
}

// --- Mock profile repo for the auth middleware ---

type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

var _ repository.ProfileRepository = (*mockProfileRepo)(nil)

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *mockProfileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProfileRepo) GrantClasses(ctx context.Context, tx repository.Tx, userID string, classes int, planName string) error {
	return nil
}

func (m *mockProfileRepo) ConsumeClass(ctx context.Context, tx repository.Tx, userID string, markFreeClassUsed bool) (bool, error) {
	return true, nil
}

//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories (in-memory)
// =============================

// ---- Payments ----

type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment

	SaveFunc          func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	MarkProcessedFunc func(ctx context.Context, tx repository.Tx, id string, at time.Time) (bool, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// MarkProcessed mirrors the conditional UPDATE: it only wins while
// processed_at is still unset, under the repo lock, so concurrent callers
// race the same way they do against the database.
func (m *MockPaymentRepo) MarkProcessed(ctx context.Context, tx repository.Tx, id string, at time.Time) (bool, error) {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, tx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.ProcessedAt != nil {
		return false, nil
	}
	t := at
	p.ProcessedAt = &t
	return true, nil
}

func (m *MockPaymentRepo) UpdateGatewayState(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, providerPaymentID, paymentMethod, statusDetail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	// Empty surface fields keep their previous value, matching the
	// COALESCE(NULLIF(...)) writes of the postgres repository.
	if providerPaymentID != "" {
		p.ProviderPaymentID = providerPaymentID
		p.ExternalID = providerPaymentID
	}
	if paymentMethod != "" {
		p.PaymentMethod = paymentMethod
	}
	if statusDetail != "" {
		p.StatusDetail = statusDetail
	}
	return nil
}

func (m *MockPaymentRepo) SetPreference(ctx context.Context, tx repository.Tx, id, preferenceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ProviderPreferenceID = preferenceID
	return nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Get returns the stored payment for assertions.
func (m *MockPaymentRepo) Get(id string) *model.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ---- Plans ----

type MockPlanRepo struct {
	mu    sync.Mutex
	store map[string]*model.Plan
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.store[plan.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Plan
	for _, p := range m.store {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// ---- Profiles ----

type MockProfileRepo struct {
	mu    sync.Mutex
	store map[string]*model.Profile

	GrantClassesFunc func(ctx context.Context, tx repository.Tx, userID string, classes int, planName string) error
}

var _ repository.ProfileRepository = (*MockProfileRepo)(nil)

func NewMockProfileRepo() *MockProfileRepo {
	return &MockProfileRepo{store: make(map[string]*model.Profile)}
}

func (m *MockProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockProfileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProfileRepo) GrantClasses(ctx context.Context, tx repository.Tx, userID string, classes int, planName string) error {
	if m.GrantClassesFunc != nil {
		return m.GrantClassesFunc(ctx, tx, userID, classes, planName)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.ClassesRemaining += classes
	p.CurrentPlan = planName
	p.FreeClassUsed = true
	return nil
}

func (m *MockProfileRepo) ConsumeClass(ctx context.Context, tx repository.Tx, userID string, markFreeClassUsed bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.ClassesRemaining <= 0 {
		return false, nil
	}
	p.ClassesRemaining--
	if markFreeClassUsed {
		p.FreeClassUsed = true
	}
	return true, nil
}

func (m *MockProfileRepo) Get(id string) *model.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ---- Subscriptions ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*model.Subscription
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs = append(m.subs, &cp)
	return nil
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ExpireActiveByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *MockSubscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.subs {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// CountByUserAndStatus is an assertion helper.
func (m *MockSubscriptionRepo) CountByUserAndStatus(userID string, status model.SubscriptionStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == status {
			n++
		}
	}
	return n
}

// ---- Scheduled classes ----

type MockClassRepo struct {
	mu      sync.Mutex
	classes []*model.ScheduledClass
}

var _ repository.ScheduledClassRepository = (*MockClassRepo)(nil)

func NewMockClassRepo() *MockClassRepo {
	return &MockClassRepo{}
}

func (m *MockClassRepo) Save(ctx context.Context, tx repository.Tx, c *model.ScheduledClass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.classes = append(m.classes, &cp)
	return nil
}

func (m *MockClassRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.ScheduledClass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ScheduledClass
	for _, c := range m.classes {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockClassRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.ClassStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.classes {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---- Availability ----

type MockAvailabilityRepo struct {
	Slots   []*model.Availability
	Blocked []*model.BlockedDate
}

var _ repository.AvailabilityRepository = (*MockAvailabilityRepo)(nil)

func (m *MockAvailabilityRepo) ListSlots(ctx context.Context, tx repository.Tx) ([]*model.Availability, error) {
	return m.Slots, nil
}

func (m *MockAvailabilityRepo) ListBlockedDates(ctx context.Context, tx repository.Tx) ([]*model.BlockedDate, error) {
	return m.Blocked, nil
}

// =============================
// Adapters
// =============================

// ---- Payment gateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	FetchPaymentFunc     func(ctx context.Context, providerPaymentID string) (*model.GatewayPayment, error)
	CreatePreferenceFunc func(ctx context.Context, req adapter.CheckoutRequest) (*adapter.CheckoutSession, error)

	Calls struct {
		Fetch  []string
		Create []adapter.CheckoutRequest
	}
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mercadopago" }

func (m *MockPaymentGateway) FetchPayment(ctx context.Context, providerPaymentID string) (*model.GatewayPayment, error) {
	m.mu.Lock()
	m.Calls.Fetch = append(m.Calls.Fetch, providerPaymentID)
	m.mu.Unlock()
	if m.FetchPaymentFunc != nil {
		return m.FetchPaymentFunc(ctx, providerPaymentID)
	}
	return &model.GatewayPayment{ID: providerPaymentID, Status: "pending"}, nil
}

func (m *MockPaymentGateway) CreatePreference(ctx context.Context, req adapter.CheckoutRequest) (*adapter.CheckoutSession, error) {
	m.mu.Lock()
	m.Calls.Create = append(m.Calls.Create, req)
	m.mu.Unlock()
	if m.CreatePreferenceFunc != nil {
		return m.CreatePreferenceFunc(ctx, req)
	}
	return &adapter.CheckoutSession{PreferenceID: "pref-1", CheckoutURL: "https://checkout.example/pref-1"}, nil
}

// ---- Meeting scheduler ----

type MockMeetingScheduler struct {
	CreateMeetingFunc func(ctx context.Context, req adapter.MeetingRequest) (*adapter.Meeting, error)
	Created           []adapter.MeetingRequest
	mu                sync.Mutex
}

var _ adapter.MeetingScheduler = (*MockMeetingScheduler)(nil)

func (m *MockMeetingScheduler) CreateMeeting(ctx context.Context, req adapter.MeetingRequest) (*adapter.Meeting, error) {
	m.mu.Lock()
	m.Created = append(m.Created, req)
	m.mu.Unlock()
	if m.CreateMeetingFunc != nil {
		return m.CreateMeetingFunc(ctx, req)
	}
	return &adapter.Meeting{EventID: "evt-1", JoinLink: "https://meet.example/abc-defg-hij"}, nil
}

// ---- Assistant ----

type MockAssistant struct {
	ReplyFunc func(ctx context.Context, messages []adapter.Message) (string, error)
	Prompts   [][]adapter.Message
	mu        sync.Mutex
}

var _ adapter.AssistantAdapter = (*MockAssistant)(nil)

func (m *MockAssistant) Name() string { return "mock" }

func (m *MockAssistant) Reply(ctx context.Context, messages []adapter.Message) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, messages)
	m.mu.Unlock()
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, messages)
	}
	return "mock reply", nil
}

// =============================
// Transaction manager
// =============================

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately without a real transaction. Tests that
// need to verify transactional behavior assign WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

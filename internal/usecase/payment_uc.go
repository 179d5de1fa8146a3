package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// Checkout opens a provider checkout session for a plan and records the
	// pending local payment linked to it. Returns the payment and the URL
	// the user is redirected to.
	Checkout(ctx context.Context, userID, planID string) (*model.Payment, string, error)

	// Reconcile fetches authoritative payment state from the gateway and
	// brings local state in line with it, granting the purchased entitlement
	// at most once. expectedUserID is set on the user-confirmation path and
	// enforces ownership; empty on the webhook path.
	Reconcile(ctx context.Context, providerPaymentID, expectedUserID string) (*ReconcileOutcome, error)
}

// ReconcileOutcome reports what one reconciliation observed and did.
type ReconcileOutcome struct {
	PaymentID string
	Status    model.PaymentStatus
	Amount    int64 // minor units
	Currency  string
	// Granted is true only for the call that performed the entitlement
	// grant. Duplicate deliveries of the same approval report Granted=false
	// with Status approved.
	Granted bool
}

type paymentUC struct {
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	profiles repository.ProfileRepository
	subs     repository.SubscriptionRepository
	gateway  adapter.PaymentGateway
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	plans repository.PlanRepository,
	profiles repository.ProfileRepository,
	subs repository.SubscriptionRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		payments: payments,
		plans:    plans,
		profiles: profiles,
		subs:     subs,
		gateway:  gateway,
		tm:       tm,
		log:      logger,
	}
}

func (u *paymentUC) Checkout(ctx context.Context, userID, planID string) (*model.Payment, string, error) {
	if userID == "" || planID == "" {
		return nil, "", domain.ErrInvalidArgument
	}

	profile, err := u.profiles.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, "", err
	}
	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		return nil, "", err
	}
	if !plan.Active {
		return nil, "", domain.ErrPlanNotAvailable
	}

	p := &model.Payment{
		ID:        ulid.Make().String(),
		UserID:    profile.ID,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Status:    model.PaymentStatusPending,
		Provider:  u.gateway.Name(),
		CreatedAt: time.Now(),
	}
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, "", err
	}

	sess, err := u.gateway.CreatePreference(ctx, adapter.CheckoutRequest{
		PaymentID:  p.ID,
		UserID:     profile.ID,
		PlanID:     plan.ID,
		Title:      fmt.Sprintf("Plan %s", plan.Name),
		Amount:     plan.Price,
		Currency:   plan.Currency,
		PayerEmail: profile.Email,
		PayerName:  profile.FullName,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if err := u.payments.SetPreference(ctx, nil, p.ID, sess.PreferenceID); err != nil {
		return nil, "", err
	}
	p.ProviderPreferenceID = sess.PreferenceID

	u.log.Info().Str("payment_id", p.ID).Str("plan_id", plan.ID).Msg("checkout session created")
	return p, sess.CheckoutURL, nil
}

func (u *paymentUC) Reconcile(ctx context.Context, providerPaymentID, expectedUserID string) (*ReconcileOutcome, error) {
	if providerPaymentID == "" {
		return nil, domain.ErrInvalidArgument
	}

	gp, err := u.gateway.FetchPayment(ctx, providerPaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	localID := gp.LocalReference()
	if localID == "" {
		return nil, domain.ErrCorrelationMissing
	}

	p, err := u.payments.FindByID(ctx, nil, localID)
	if err != nil {
		return nil, err
	}
	if expectedUserID != "" && p.UserID != expectedUserID {
		return nil, domain.ErrForbidden
	}

	status := model.NormalizeGatewayStatus(gp.Status)

	if status != model.PaymentStatusApproved {
		// Refresh gateway surface fields only; the payment may legitimately
		// be observed many times before final settlement.
		if err := u.payments.UpdateGatewayState(ctx, nil, p.ID, status, gp.ID, gp.PaymentMethod, gp.StatusDetail); err != nil {
			return nil, err
		}
		return &ReconcileOutcome{PaymentID: p.ID, Status: status, Amount: p.Amount, Currency: p.Currency}, nil
	}

	granted := false
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()

		// The single writer gate. The webhook delivery, the user's confirm
		// request, and a gateway redelivery can all race here; exactly one
		// wins the conditional write and performs the grant.
		won, err := u.payments.MarkProcessed(ctx, tx, p.ID, now)
		if err != nil {
			return err
		}
		if !won {
			return u.payments.UpdateGatewayState(ctx, tx, p.ID, model.PaymentStatusApproved, gp.ID, gp.PaymentMethod, gp.StatusDetail)
		}

		plan, err := u.plans.FindByID(ctx, tx, p.PlanID)
		if err != nil {
			return err
		}

		// Credits are independent of subscription bookkeeping. The flag is
		// consumed unconditionally on every grant, matching the billing
		// policy that a paid plan supersedes the free trial.
		if err := u.profiles.GrantClasses(ctx, tx, p.UserID, plan.ClassesPerMonth, plan.Name); err != nil {
			return err
		}

		// Expire before insert: a brief window with zero active
		// subscriptions is acceptable, two concurrently active ones are not.
		if _, err := u.subs.ExpireActiveByUser(ctx, tx, p.UserID); err != nil {
			return err
		}
		sub, err := model.NewSubscription(uuid.NewString(), p.UserID, plan.ID, now)
		if err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return err
		}

		if err := u.payments.UpdateGatewayState(ctx, tx, p.ID, model.PaymentStatusApproved, gp.ID, gp.PaymentMethod, gp.StatusDetail); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if granted {
		u.log.Info().Str("payment_id", p.ID).Str("user_id", p.UserID).Msg("entitlement granted")
	} else {
		u.log.Debug().Str("payment_id", p.ID).Msg("duplicate approval observed; grant skipped")
	}
	return &ReconcileOutcome{PaymentID: p.ID, Status: model.PaymentStatusApproved, Amount: p.Amount, Currency: p.Currency, Granted: granted}, nil
}

package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain/ports/repository"
	"tutoring-platform/internal/infra/metrics"
	"tutoring-platform/internal/usecase"
)

// PaymentReconciler periodically scans for stale pending payments and
// re-syncs them against the gateway. This covers notifications that never
// arrived and processes that crashed mid-confirm; Reconcile itself is
// idempotent, so retrying an already-settled payment is harmless.
type PaymentReconciler struct {
	uc         usecase.PaymentUseCase
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(uc usecase.PaymentUseCase, payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	compLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{uc: uc, payments: payments, interval: interval, staleAfter: staleAfter, log: &compLog}
}

func (w *PaymentReconciler) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("starting payment reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping payment reconciler")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list pending payments failed")
		return
	}
	for _, p := range pending {
		// Payments whose checkout was never completed carry no provider
		// payment id; there is nothing to fetch for them yet.
		if p.ProviderPaymentID == "" {
			continue
		}
		outcome, err := w.uc.Reconcile(ctx, p.ProviderPaymentID, "")
		if err != nil {
			w.log.Warn().Err(err).Str("payment_id", p.ID).Msg("reconcile failed")
			continue
		}
		metrics.IncReconcile(string(outcome.Status))
		if outcome.Granted {
			metrics.IncGrant()
			metrics.AddPaymentRevenue(outcome.Currency, outcome.Amount)
			w.log.Info().Str("payment_id", p.ID).Msg("stale payment reconciled and granted")
		}
	}
}

//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"tutoring-platform/internal/domain"
)

// --- Gateway status normalization ---

func TestNormalizeGatewayStatus(t *testing.T) {
	t.Run("approved only on exact match", func(t *testing.T) {
		if got := NormalizeGatewayStatus("approved"); got != PaymentStatusApproved {
			t.Errorf("expected approved, got %s", got)
		}
		if got := NormalizeGatewayStatus("Approved"); got != PaymentStatusPending {
			t.Errorf("case variants must not approve, got %s", got)
		}
	})

	t.Run("fixed rejection set maps to rejected", func(t *testing.T) {
		for _, raw := range []string{"rejected", "cancelled", "charged_back", "refunded"} {
			if got := NormalizeGatewayStatus(raw); got != PaymentStatusRejected {
				t.Errorf("status %q: expected rejected, got %s", raw, got)
			}
		}
	})

	t.Run("everything else defaults to pending", func(t *testing.T) {
		for _, raw := range []string{"", "pending", "in_process", "authorized", "some_future_status", "APPROVED"} {
			if got := NormalizeGatewayStatus(raw); got != PaymentStatusPending {
				t.Errorf("status %q: expected pending, got %s", raw, got)
			}
		}
	})
}

func TestGatewayPaymentLocalReference(t *testing.T) {
	t.Run("external_reference wins over metadata when both present", func(t *testing.T) {
		g := &GatewayPayment{ExternalReference: "pay_ref", LocalPaymentID: "pay_meta"}
		if got := g.LocalReference(); got != "pay_ref" {
			t.Errorf("expected pay_ref, got %q", got)
		}
	})

	t.Run("falls back to metadata id", func(t *testing.T) {
		g := &GatewayPayment{ExternalReference: "  ", LocalPaymentID: "pay_meta"}
		if got := g.LocalReference(); got != "pay_meta" {
			t.Errorf("expected pay_meta, got %q", got)
		}
	})

	t.Run("empty when neither yields an id", func(t *testing.T) {
		g := &GatewayPayment{}
		if got := g.LocalReference(); got != "" {
			t.Errorf("expected empty reference, got %q", got)
		}
	})
}

// --- Plan ---

func TestNewPlan(t *testing.T) {
	t.Run("should create an active plan", func(t *testing.T) {
		plan, err := NewPlan("plan-1", "Progress", 80000, "CLP", 8)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !plan.Active {
			t.Error("expected a new plan to be active")
		}
		if plan.ClassesPerMonth != 8 {
			t.Errorf("expected 8 classes per month, got %d", plan.ClassesPerMonth)
		}
	})

	t.Run("should fail with non-positive price", func(t *testing.T) {
		_, err := NewPlan("plan-1", "Progress", 0, "CLP", 8)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

// --- Subscription ---

func TestNewSubscription(t *testing.T) {
	t.Run("period spans one calendar month", func(t *testing.T) {
		now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
		sub, err := NewSubscription("sub-1", "user-1", "plan-1", now)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if sub.Status != SubscriptionStatusActive {
			t.Errorf("expected active status, got %s", sub.Status)
		}
		want := time.Date(2026, time.February, 15, 10, 0, 0, 0, time.UTC)
		if !sub.CurrentPeriodEnd.Equal(want) {
			t.Errorf("expected period end %v, got %v", want, sub.CurrentPeriodEnd)
		}
	})

	t.Run("should fail with missing ids", func(t *testing.T) {
		if _, err := NewSubscription("", "user-1", "plan-1", time.Now()); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

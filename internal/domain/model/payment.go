package model

import (
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // created at checkout; awaiting gateway truth
	PaymentStatusApproved PaymentStatus = "approved" // gateway settled the payment
	PaymentStatusRejected PaymentStatus = "rejected" // gateway rejected/cancelled/charged back/refunded
)

// rejectedGatewayStatuses is the fixed set of provider statuses treated as
// terminal rejections. Everything outside it that is not exactly "approved"
// stays pending: an unknown provider status must never grant an entitlement
// and must never permanently bury a payment that may still settle.
var rejectedGatewayStatuses = map[string]struct{}{
	"rejected":     {},
	"cancelled":    {},
	"charged_back": {},
	"refunded":     {},
}

// NormalizeGatewayStatus maps the provider's open status vocabulary onto the
// local three-state model. Total over arbitrary input; pending is the
// fail-safe default arm.
func NormalizeGatewayStatus(raw string) PaymentStatus {
	if raw == "approved" {
		return PaymentStatusApproved
	}
	if _, ok := rejectedGatewayStatuses[raw]; ok {
		return PaymentStatusRejected
	}
	return PaymentStatusPending
}

// Payment records one checkout attempt. ID is generated locally (ULID) and
// handed to the gateway as external_reference, which is how notifications are
// correlated back to this row.
type Payment struct {
	ID                   string
	UserID               string
	PlanID               string
	Amount               int64 // minor units
	Currency             string
	Status               PaymentStatus
	Provider             string
	ProviderPreferenceID string
	ProviderPaymentID    string
	PaymentMethod        string
	StatusDetail         string
	ExternalID           string
	// ProcessedAt is set exactly once, when the entitlement grant for this
	// payment commits. Non-nil means the grant already happened.
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// Processed reports whether the entitlement for this payment was granted.
func (p *Payment) Processed() bool { return p.ProcessedAt != nil }

// GatewayPayment is the authoritative state fetched from the provider.
// Notification contents are never trusted; this is.
type GatewayPayment struct {
	ID                string
	Status            string
	StatusDetail      string
	PaymentMethod     string
	ExternalReference string
	LocalPaymentID    string // vendor metadata fallback (metadata.local_payment_id)
}

// LocalReference resolves the local payment id carried by a gateway payment.
// external_reference wins over the metadata fallback when both are present.
func (g *GatewayPayment) LocalReference() string {
	if ref := strings.TrimSpace(g.ExternalReference); ref != "" {
		return ref
	}
	return strings.TrimSpace(g.LocalPaymentID)
}

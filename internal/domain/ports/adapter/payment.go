package adapter

import (
	"context"

	"tutoring-platform/internal/domain/model"
)

// CheckoutRequest carries everything the provider needs to open a checkout
// session for one plan purchase. PaymentID doubles as the provider
// external_reference so notifications can be correlated back.
type CheckoutRequest struct {
	PaymentID  string
	UserID     string
	PlanID     string
	Title      string
	Amount     int64
	Currency   string
	PayerEmail string
	PayerName  string
}

// CheckoutSession is the provider-side session created for a CheckoutRequest.
type CheckoutSession struct {
	PreferenceID string
	CheckoutURL  string
}

// PaymentGateway is the hex port for the payment provider. FetchPayment is
// the single source of payment truth; notification payloads are never
// trusted beyond the payment id they carry.
type PaymentGateway interface {
	Name() string
	FetchPayment(ctx context.Context, providerPaymentID string) (*model.GatewayPayment, error)
	CreatePreference(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*MercadoPagoGateway)(nil)

// MercadoPagoGateway implements adapter.PaymentGateway against the
// Mercado Pago REST API (payments v1 + checkout preferences).
type MercadoPagoGateway struct {
	accessToken string
	baseURL     string
	siteURL     string
	client      *http.Client
}

func NewMercadoPagoGateway(accessToken, baseURL, siteURL string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, errors.New("mercadopago access token empty")
	}
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	return &MercadoPagoGateway{
		accessToken: accessToken,
		baseURL:     strings.TrimRight(baseURL, "/"),
		siteURL:     strings.TrimRight(siteURL, "/"),
		client:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

// mpPayment mirrors the fields of GET /v1/payments/{id} we care about. The
// numeric id arrives as a JSON number; json.Number keeps it lossless.
type mpPayment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	PaymentMethodID   string      `json:"payment_method_id"`
	ExternalReference string      `json:"external_reference"`
	Metadata          struct {
		LocalPaymentID string `json:"local_payment_id"`
	} `json:"metadata"`
}

// FetchPayment reads the authoritative payment state from the provider.
func (g *MercadoPagoGateway) FetchPayment(ctx context.Context, providerPaymentID string) (*model.GatewayPayment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", g.baseURL, providerPaymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: payment fetch http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out mpPayment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode payment: %v", domain.ErrUpstreamUnavailable, err)
	}

	return &model.GatewayPayment{
		ID:                out.ID.String(),
		Status:            out.Status,
		StatusDetail:      out.StatusDetail,
		PaymentMethod:     out.PaymentMethodID,
		ExternalReference: out.ExternalReference,
		LocalPaymentID:    out.Metadata.LocalPaymentID,
	}, nil
}

// CreatePreference opens a checkout session. The local payment id travels as
// external_reference and is mirrored into metadata so either channel can
// correlate the notification later.
func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, req adapter.CheckoutRequest) (*adapter.CheckoutSession, error) {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id":          req.PlanID,
				"title":       req.Title,
				"quantity":    1,
				"currency_id": req.Currency,
				"unit_price":  req.Amount,
			},
		},
		"payer": map[string]interface{}{
			"email": req.PayerEmail,
			"name":  req.PayerName,
		},
		"external_reference": req.PaymentID,
		"metadata": map[string]interface{}{
			"local_payment_id": req.PaymentID,
			"user_id":          req.UserID,
			"plan_id":          req.PlanID,
		},
		"back_urls": map[string]string{
			"success": g.siteURL + "/dashboard?payment_status=approved",
			"pending": g.siteURL + "/dashboard?payment_status=pending",
			"failure": g.siteURL + "/dashboard?payment_status=failure",
		},
		"auto_return":      "approved",
		"notification_url": g.siteURL + "/api/mercadopago/webhook",
	}
	b, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout/preferences", strings.NewReader(string(b)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: preference http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out struct {
		ID               string `json:"id"`
		InitPoint        string `json:"init_point"`
		SandboxInitPoint string `json:"sandbox_init_point"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode preference: %v", domain.ErrUpstreamUnavailable, err)
	}

	checkoutURL := out.InitPoint
	if checkoutURL == "" {
		checkoutURL = out.SandboxInitPoint
	}
	if checkoutURL == "" {
		return nil, fmt.Errorf("%w: preference returned no checkout url", domain.ErrUpstreamUnavailable)
	}

	return &adapter.CheckoutSession{PreferenceID: out.ID, CheckoutURL: checkoutURL}, nil
}

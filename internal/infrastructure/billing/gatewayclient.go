// Package billing implements the payment provider gateway over its JSON
// API. The provider is the source of truth for money movement; state lands
// back in the engine through webhooks.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	"github.com/pixamint/pixamint/internal/shared/config"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type GatewayClient struct {
	baseURL    string
	apiKey     string
	returnURL  string
	httpClient *http.Client
	logger     logger.Interface
}

func NewGatewayClient(cfg *config.BillingConfig, logger logger.Interface) *GatewayClient {
	return &GatewayClient{
		baseURL:    strings.TrimRight(cfg.GatewayBaseURL, "/"),
		apiKey:     cfg.GatewayAPIKey,
		returnURL:  cfg.ReturnURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

var _ paymentgateway.Gateway = (*GatewayClient)(nil)

type checkoutSessionRequest struct {
	Reference     string `json:"reference"`
	CustomerEmail string `json:"customer_email"`
	CustomerRef   string `json:"customer_ref,omitempty"`
	PlanName      string `json:"plan_name"`
	PriceRef      string `json:"price_ref,omitempty"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	ReturnURL     string `json:"return_url"`
}

type checkoutSessionResponse struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
	CustomerRef string `json:"customer_ref"`
}

func (c *GatewayClient) CreateCheckoutSession(ctx context.Context, params paymentgateway.CheckoutParams) (*paymentgateway.CheckoutSession, error) {
	returnURL := params.ReturnURL
	if returnURL == "" {
		returnURL = c.returnURL
	}

	var resp checkoutSessionResponse
	err := c.post(ctx, "/v1/checkout/sessions", params.PaymentSID, checkoutSessionRequest{
		Reference:     params.PaymentSID,
		CustomerEmail: params.CustomerEmail,
		CustomerRef:   params.CustomerRef,
		PlanName:      params.PlanName,
		PriceRef:      params.PriceRef,
		AmountCents:   params.AmountCents,
		Currency:      params.Currency,
		ReturnURL:     returnURL,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &paymentgateway.CheckoutSession{
		ProviderRef: resp.ID,
		CheckoutURL: resp.CheckoutURL,
		CustomerRef: resp.CustomerRef,
	}, nil
}

type chargeRequest struct {
	Reference   string `json:"reference"`
	CustomerRef string `json:"customer_ref"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

type chargeResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	FailureReason string `json:"failure_reason"`
}

// Charge runs a synchronous off-session charge. A declined card is a
// result, not an error.
func (c *GatewayClient) Charge(ctx context.Context, params paymentgateway.ChargeParams) (*paymentgateway.ChargeResult, error) {
	var resp chargeResponse
	err := c.post(ctx, "/v1/charges", params.PaymentSID, chargeRequest{
		Reference:   params.PaymentSID,
		CustomerRef: params.CustomerRef,
		AmountCents: params.AmountCents,
		Currency:    params.Currency,
		Description: params.Description,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to charge customer: %w", err)
	}

	return &paymentgateway.ChargeResult{
		ProviderRef:   resp.ID,
		Succeeded:     resp.Status == "succeeded",
		FailureReason: resp.FailureReason,
	}, nil
}

type refundRequest struct {
	ChargeRef string `json:"charge_ref"`
	Reason    string `json:"reason,omitempty"`
}

type refundResponse struct {
	ID string `json:"id"`
}

func (c *GatewayClient) Refund(ctx context.Context, params paymentgateway.RefundParams) (string, error) {
	var resp refundResponse
	err := c.post(ctx, "/v1/refunds", params.ProviderPaymentRef, refundRequest{
		ChargeRef: params.ProviderPaymentRef,
		Reason:    params.Reason,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to refund charge: %w", err)
	}

	c.logger.Infow("refund created", "charge_ref", params.ProviderPaymentRef, "refund_ref", resp.ID)
	return resp.ID, nil
}

func (c *GatewayClient) CancelSubscription(ctx context.Context, providerSubRef string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/v1/subscriptions/"+providerSubRef, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to cancel provider subscription: %w", err)
	}
	defer resp.Body.Close()

	// Already gone upstream counts as cancelled.
	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debugw("provider subscription already gone", "provider_sub_ref", providerSubRef)
		return nil
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider cancel returned status %d: %s", resp.StatusCode, raw)
	}

	return nil
}

func (c *GatewayClient) post(ctx context.Context, path, idempotencyKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

// Package paygate is the client for the PayStream payment gateway. It
// creates charges and refunds over the gateway's REST API and verifies
// the signatures on incoming webhook events.
package paygate

import (
	"context"
	"fmt"
	"time"

	"github.com/nikhilverma/shopline/config"
	"github.com/nikhilverma/shopline/pkg/httpclient"
)

// ChargeStatus values reported by the gateway.
const (
	ChargePending   = "pending"
	ChargeSucceeded = "succeeded"
	ChargeFailed    = "failed"
	ChargeRefunded  = "refunded"
)

// Charge is the gateway's representation of a payment attempt.
type Charge struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"payment_method"`
}

// Refund is the gateway's refund object.
type Refund struct {
	ID       string `json:"id"`
	ChargeID string `json:"charge_id"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

// Client talks to the gateway REST API.
type Client struct {
	baseURL string
	apiKey  string
}

// New builds a Client from the environment configuration.
func New() *Client {
	return &Client{
		baseURL: config.GatewayBaseURL(),
		apiKey:  config.GatewayAPIKey(),
	}
}

// NewWithConfig builds a Client with explicit settings, used by tests.
func NewWithConfig(baseURL, apiKey string) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey}
}

type chargeRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PaymentMethod  string `json:"payment_method"`
	IdempotencyKey string `json:"idempotency_key"`
	Description    string `json:"description,omitempty"`
}

// CreateCharge asks the gateway to charge amount (minor units) against a
// tokenized payment method. idemKey makes retried calls safe: the gateway
// returns the original charge rather than billing twice.
func (c *Client) CreateCharge(ctx context.Context, amount int64, currency, paymentMethod, idemKey, description string) (*Charge, error) {
	resp, err := httpclient.Post(c.baseURL+"/charges").
		WithContext(ctx).
		Bearer(c.apiKey).
		Body(chargeRequest{
			Amount:         amount,
			Currency:       currency,
			PaymentMethod:  paymentMethod,
			IdempotencyKey: idemKey,
			Description:    description,
		}).
		Timeout(15 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return nil, fmt.Errorf("paygate: create charge: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("paygate: create charge: %w", err)
	}

	var ch Charge
	if err := resp.JSON(&ch); err != nil {
		return nil, fmt.Errorf("paygate: create charge: %w", err)
	}
	return &ch, nil
}

// GetCharge fetches the current state of a charge.
func (c *Client) GetCharge(ctx context.Context, chargeID string) (*Charge, error) {
	resp, err := httpclient.Get(c.baseURL+"/charges/"+chargeID).
		WithContext(ctx).
		Bearer(c.apiKey).
		Timeout(10 * time.Second).
		Send()
	if err != nil {
		return nil, fmt.Errorf("paygate: get charge: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("paygate: get charge: %w", err)
	}

	var ch Charge
	if err := resp.JSON(&ch); err != nil {
		return nil, fmt.Errorf("paygate: get charge: %w", err)
	}
	return &ch, nil
}

// CreateRefund refunds amount (minor units) of a succeeded charge.
// Pass the full charge amount for a complete refund.
func (c *Client) CreateRefund(ctx context.Context, chargeID string, amount int64) (*Refund, error) {
	resp, err := httpclient.Post(c.baseURL+"/refunds").
		WithContext(ctx).
		Bearer(c.apiKey).
		Body(map[string]interface{}{
			"charge_id": chargeID,
			"amount":    amount,
		}).
		Timeout(15 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return nil, fmt.Errorf("paygate: create refund: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("paygate: create refund: %w", err)
	}

	var rf Refund
	if err := resp.JSON(&rf); err != nil {
		return nil, fmt.Errorf("paygate: create refund: %w", err)
	}
	return &rf, nil
}

package models

import "gorm.io/gorm"

// Payment statuses.
const (
	PaymentPending   = "PENDING"
	PaymentSucceeded = "SUCCEEDED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

var paymentTransitions = map[string][]string{
	PaymentPending:   {PaymentSucceeded, PaymentFailed},
	PaymentSucceeded: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

// Payment records one charge attempt against an order. GatewayChargeID is
// the processor's charge identifier; GatewayRef holds the AES-GCM
// encrypted payment-method reference and never serialises. The service
// layer guarantees at most one non-FAILED payment per order.
type Payment struct {
	gorm.Model
	OrderID         uint   `gorm:"not null;index" json:"order_id"`
	Status          string `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Amount          int64  `gorm:"not null" json:"amount"`
	Currency        string `gorm:"size:8;not null;default:usd" json:"currency"`
	GatewayChargeID string `gorm:"size:128;index" json:"gateway_charge_id"`
	GatewayRef      string `gorm:"size:512" json:"-"`
}

// CanTransitionTo reports whether the payment may move to next.
func (p *Payment) CanTransitionTo(next string) bool {
	for _, allowed := range paymentTransitions[p.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/jobs"
	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/event"
	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/metrics"
	"github.com/nikhilverma/shopline/pkg/orm"
	"github.com/nikhilverma/shopline/pkg/paygate"
	"github.com/nikhilverma/shopline/pkg/queue"
)

// PaymentService applies verified gateway webhook events to our payment
// and order rows.
type PaymentService struct {
	payments *repositories.PaymentRepository
	orders   *repositories.OrderRepository
	gateway  *paygate.Client
}

func NewPaymentService() *PaymentService {
	return &PaymentService{
		payments: repositories.NewPaymentRepository(),
		orders:   repositories.NewOrderRepository(),
		gateway:  paygate.New(),
	}
}

// ErrUnknownCharge marks webhooks for charges we have no payment row for.
var ErrUnknownCharge = errors.New("no payment for charge")

// paymentStatusFor maps a gateway event type to our payment status.
func paymentStatusFor(eventType string) (string, bool) {
	switch eventType {
	case paygate.EventChargeSucceeded:
		return models.PaymentSucceeded, true
	case paygate.EventChargeFailed:
		return models.PaymentFailed, true
	case paygate.EventChargeRefunded:
		return models.PaymentRefunded, true
	default:
		return "", false
	}
}

// HandleWebhook applies one verified event. Replays are idempotent: a
// payment already in the event's target status is acknowledged without
// a write. A successful charge moves the order PENDING→PROCESSING in
// the same transaction that records the payment status; if the order was
// cancelled before the webhook arrived, the charge is refunded instead.
func (s *PaymentService) HandleWebhook(ctx context.Context, ev *paygate.Event, charge paygate.Charge) error {
	target, ok := paymentStatusFor(ev.Type)
	if !ok {
		logger.Info("payment: ignoring webhook event", "type", ev.Type)
		return nil
	}

	var applied bool
	var orderAdvanced bool
	var orderID uint
	var lateRefund models.Payment

	err := orm.Transaction(func(tx *gorm.DB) error {
		payment, err := s.payments.FindByChargeIDTx(tx, charge.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCharge
			}
			return err
		}

		if payment.Status == target {
			return nil // replayed delivery
		}
		if !payment.CanTransitionTo(target) {
			logger.Warn("payment: out-of-order webhook dropped",
				"payment_id", payment.ID, "from", payment.Status, "to", target)
			return nil
		}

		if err := s.payments.UpdateStatusTx(tx, payment.ID, target); err != nil {
			return err
		}
		applied = true
		orderID = payment.OrderID

		if target == models.PaymentSucceeded {
			order, err := s.orders.FindByIDTx(tx, payment.OrderID)
			if err != nil {
				return err
			}
			switch {
			case order.CanTransitionTo(models.OrderProcessing):
				if err := s.orders.UpdateStatusTx(tx, order.ID, models.OrderProcessing); err != nil {
					return err
				}
				orderAdvanced = true
			case order.Status == models.OrderCancelled:
				// A stale-order cancel raced the webhook. The money has to
				// go back; the refund runs after this transaction commits.
				lateRefund = payment
			}
		}
		return nil
	})
	if err != nil || !applied {
		return err
	}

	metrics.PaymentsProcessed.WithLabelValues(statusLabel(target)).Inc()

	switch target {
	case models.PaymentSucceeded:
		if lateRefund.ID != 0 {
			logger.Warn("payment: charge succeeded for cancelled order, refunding",
				"order_id", orderID, "payment_id", lateRefund.ID, "charge_id", charge.ID)
			if err := s.refundLateCharge(ctx, lateRefund); err != nil {
				logger.Error("payment: late-charge refund failed",
					"order_id", orderID, "payment_id", lateRefund.ID, "error", err)
			}
			break
		}
		if orderAdvanced {
			metrics.OrderTransitions.WithLabelValues(models.OrderPending, models.OrderProcessing).Inc()
		}
		event.FireAsync(event.PaymentSucceeded, map[string]interface{}{"order_id": orderID})
		if err := queue.Dispatch(jobs.PaymentReceiptJob{OrderID: orderID}); err != nil {
			logger.Warn("payment: receipt job not queued", "order_id", orderID, "error", err)
		}
	case models.PaymentFailed:
		event.FireAsync(event.PaymentFailed, map[string]interface{}{"order_id": orderID})
	}
	return nil
}

// refundLateCharge pays back a charge whose order was already cancelled
// when the success webhook arrived.
func (s *PaymentService) refundLateCharge(ctx context.Context, payment models.Payment) error {
	if _, err := s.gateway.CreateRefund(ctx, payment.GatewayChargeID, payment.Amount); err != nil {
		return err
	}
	err := orm.Transaction(func(tx *gorm.DB) error {
		return s.payments.UpdateStatusTx(tx, payment.ID, models.PaymentRefunded)
	})
	if err != nil {
		return err
	}
	metrics.PaymentsProcessed.WithLabelValues("refunded").Inc()
	return nil
}

func statusLabel(status string) string {
	switch status {
	case models.PaymentSucceeded:
		return "succeeded"
	case models.PaymentFailed:
		return "failed"
	case models.PaymentRefunded:
		return "refunded"
	default:
		return "pending"
	}
}

// ListFailed pages failed payments for the admin console.
func (s *PaymentService) ListFailed(page, limit int) ([]models.Payment, orm.Pagination, error) {
	return s.payments.ListFailed(page, limit)
}

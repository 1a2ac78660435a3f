package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/jobs"
	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/crypt"
	"github.com/nikhilverma/shopline/pkg/event"
	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/metrics"
	"github.com/nikhilverma/shopline/pkg/orm"
	"github.com/nikhilverma/shopline/pkg/paygate"
	"github.com/nikhilverma/shopline/pkg/queue"
)

// OrderService runs checkout and the order status machine. Every write
// that touches stock together with order or payment state happens inside
// one database transaction.
type OrderService struct {
	orders   *repositories.OrderRepository
	payments *repositories.PaymentRepository
	products *repositories.ProductRepository
	carts    *repositories.CartRepository
	cartSvc  *CartService
	gateway  *paygate.Client
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		payments: repositories.NewPaymentRepository(),
		products: repositories.NewProductRepository(),
		carts:    repositories.NewCartRepository(),
		cartSvc:  NewCartService(),
		gateway:  paygate.New(),
	}
}

// ErrInsufficientStock is surfaced to controllers as a 422.
var ErrInsufficientStock = repositories.ErrInsufficientStock

// Checkout converts the user's cart into a PENDING order. Stock for every
// line is decremented with a guarded UPDATE inside the same transaction
// that creates the order, so a failure on any line rolls everything back.
// After the order exists, a charge is created at the gateway; a gateway
// failure cancels the order and restores stock.
func (s *OrderService) Checkout(ctx context.Context, userID uint, shippingAddress, paymentMethod string) (models.Order, error) {
	cart, err := s.carts.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrEmptyCart
		}
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	var order models.Order
	err = orm.Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(cart.Items))
		var total int64

		for _, line := range cart.Items {
			if line.Product == nil {
				return fmt.Errorf("cart line %d has no product", line.ID)
			}
			if err := s.products.DecrementStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Name:      line.Product.Name,
				SKU:       line.Product.SKU,
				Price:     line.Product.Price,
				Quantity:  line.Quantity,
			})
			total += line.Product.Price * int64(line.Quantity)
		}

		order = models.Order{
			UserID:          userID,
			Status:          models.OrderPending,
			Total:           total,
			ShippingAddress: shippingAddress,
			Items:           items,
		}
		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}

		return s.carts.ClearTx(tx, cart.ID)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.OrdersPlaced.WithLabelValues("out_of_stock").Inc()
		} else {
			metrics.OrdersPlaced.WithLabelValues("error").Inc()
		}
		return models.Order{}, err
	}

	if err := s.openPayment(ctx, &order, paymentMethod); err != nil {
		// No live charge remains (openPayment refunds anything it could not
		// record), so undoing the order only has to restore stock.
		if cancelErr := s.cancelTx(order.ID, "payment could not be opened"); cancelErr != nil {
			logger.Error("order: rollback after gateway failure",
				"order_id", order.ID, "error", cancelErr)
		}
		metrics.OrdersPlaced.WithLabelValues("error").Inc()
		return models.Order{}, err
	}

	metrics.OrdersPlaced.WithLabelValues("ok").Inc()
	event.FireAsync(event.OrderPlaced, order)
	if err := queue.Dispatch(jobs.OrderConfirmationJob{OrderID: order.ID}); err != nil {
		logger.Warn("order: confirmation job not queued", "order_id", order.ID, "error", err)
	}

	return s.orders.FindByID(order.ID)
}

// openPayment creates the gateway charge and records the PENDING payment.
// Everything that can fail locally (encrypting the payment-method reference)
// runs before the charge, so the only step left once money is moving is the
// database insert; if that fails the charge is refunded immediately so the
// customer is never billed for an order with no payment record.
func (s *OrderService) openPayment(ctx context.Context, order *models.Order, paymentMethod string) error {
	ref, err := crypt.Encrypt(paymentMethod)
	if err != nil {
		return err
	}

	idemKey := fmt.Sprintf("order-%d", order.ID)
	charge, err := s.gateway.CreateCharge(ctx, order.Total, "usd", paymentMethod, idemKey,
		fmt.Sprintf("Shopline order #%d", order.ID))
	if err != nil {
		return err
	}

	payment := models.Payment{
		OrderID:         order.ID,
		Status:          models.PaymentPending,
		Amount:          order.Total,
		Currency:        charge.Currency,
		GatewayChargeID: charge.ID,
		GatewayRef:      ref,
	}
	err = orm.Transaction(func(tx *gorm.DB) error {
		if _, err := s.payments.InFlightByOrderTx(tx, order.ID); err == nil {
			return ErrPaymentInFlight
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.payments.CreateTx(tx, &payment)
	})
	if err != nil {
		if _, refundErr := s.gateway.CreateRefund(ctx, charge.ID, order.Total); refundErr != nil {
			logger.Error("payment: could not refund unrecorded charge",
				"order_id", order.ID, "charge_id", charge.ID, "error", refundErr)
		}
		return err
	}
	return nil
}

// ChangeStatus moves an order along the transition table. Cancellation
// restores stock in the same transaction; a refund follows for orders
// whose payment already succeeded.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, next string) (models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return models.Order{}, ErrInvalidTransition
	}

	var from string
	var refundPaymentID uint
	var refundChargeID string
	var refundAmount int64

	err := orm.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if !order.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		from = order.Status

		if next == models.OrderCancelled {
			for _, item := range order.Items {
				if err := s.products.IncrementStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			if order.Payment != nil && order.Payment.Status == models.PaymentSucceeded {
				refundPaymentID = order.Payment.ID
				refundChargeID = order.Payment.GatewayChargeID
				refundAmount = order.Payment.Amount
			}
		}

		return s.orders.UpdateStatusTx(tx, orderID, next)
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrderTransitions.WithLabelValues(from, next).Inc()
	event.FireAsync(event.OrderStatusChanged, map[string]interface{}{
		"order_id": orderID, "from": from, "to": next,
	})

	if refundPaymentID != 0 {
		if err := s.refund(ctx, refundPaymentID, refundChargeID, refundAmount); err != nil {
			// The cancellation stands; the refund is retried by ops from
			// the admin console.
			logger.Error("order: refund after cancellation failed",
				"order_id", orderID, "payment_id", refundPaymentID, "error", err)
		}
	}

	return s.orders.FindByID(orderID)
}

// CancelOwn lets a customer cancel their own order while it is still
// PENDING or PROCESSING. Once it ships, only an admin can cancel it.
func (s *OrderService) CancelOwn(ctx context.Context, orderID, userID uint) (models.Order, error) {
	order, err := s.orders.FindByIDForUser(orderID, userID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status != models.OrderPending && order.Status != models.OrderProcessing {
		return models.Order{}, ErrNotCancellable
	}
	return s.ChangeStatus(ctx, order.ID, models.OrderCancelled)
}

// Refund refunds a SUCCEEDED payment without cancelling the order, for
// admin goodwill refunds and retrying a failed automatic refund.
func (s *OrderService) Refund(ctx context.Context, orderID uint) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.Payment == nil || order.Payment.Status != models.PaymentSucceeded {
		return models.Order{}, ErrNotRefundable
	}

	if err := s.refund(ctx, order.Payment.ID, order.Payment.GatewayChargeID, order.Payment.Amount); err != nil {
		return models.Order{}, err
	}
	return s.orders.FindByID(orderID)
}

func (s *OrderService) refund(ctx context.Context, paymentID uint, chargeID string, amount int64) error {
	if _, err := s.gateway.CreateRefund(ctx, chargeID, amount); err != nil {
		return err
	}

	err := orm.Transaction(func(tx *gorm.DB) error {
		return s.payments.UpdateStatusTx(tx, paymentID, models.PaymentRefunded)
	})
	if err != nil {
		return err
	}

	metrics.PaymentsProcessed.WithLabelValues("refunded").Inc()
	return nil
}

// cancelTx reverses a just-created order when its charge could not be
// opened: stock back, order CANCELLED, no refund involved.
func (s *OrderService) cancelTx(orderID uint, reason string) error {
	logger.Warn("order: cancelling", "order_id", orderID, "reason", reason)
	return orm.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := s.products.IncrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.orders.UpdateStatusTx(tx, orderID, models.OrderCancelled)
	})
}

// Get returns one order scoped to its owner.
func (s *OrderService) Get(orderID, userID uint) (models.Order, error) {
	return s.orders.FindByIDForUser(orderID, userID)
}

// ListForUser pages through a customer's order history.
func (s *OrderService) ListForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ListByUser(userID, page, limit)
}

// ListAll pages through every order for the admin console.
func (s *OrderService) ListAll(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ListAll(status, page, limit)
}

// CountByStatus tallies orders per status for the admin dashboard.
func (s *OrderService) CountByStatus() (map[string]int64, error) {
	return s.orders.CountByStatus()
}

// CancelStalePending cancels PENDING orders older than maxAge, restoring
// their stock. Run nightly from the scheduler.
func (s *OrderService) CancelStalePending(maxAge time.Duration) int {
	stale, err := s.orders.StalePending(time.Now().Add(-maxAge))
	if err != nil {
		logger.Error("order: stale scan failed", "error", err)
		return 0
	}

	cancelled := 0
	for _, order := range stale {
		if _, err := s.ChangeStatus(context.Background(), order.ID, models.OrderCancelled); err != nil {
			logger.Error("order: stale cancel failed", "order_id", order.ID, "error", err)
			continue
		}
		cancelled++
	}
	if cancelled > 0 {
		logger.Info("order: cancelled stale pending orders", "count", cancelled)
	}
	return cancelled
}

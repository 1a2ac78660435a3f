//go:build integration

// Checkout, cancellation and webhook flows against a real (sqlite) database.
// Run with: go test -tags integration ./app/services/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/database"
	"github.com/nikhilverma/shopline/pkg/paygate"
	"github.com/nikhilverma/shopline/pkg/queue"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "shopline.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	queue.SetDriver(queue.NewMemoryDriver())
	return db
}

// gatewayStub fakes the PayStream REST API and counts refund calls.
type gatewayStub struct {
	srv     *httptest.Server
	refunds atomic.Int64
}

func newGatewayStub(t *testing.T) *gatewayStub {
	t.Helper()
	g := &gatewayStub{}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/charges":
			json.NewEncoder(w).Encode(paygate.Charge{
				ID: "ch_test_1", Currency: "usd", Status: paygate.ChargePending,
			})
		case "/refunds":
			g.refunds.Add(1)
			json.NewEncoder(w).Encode(paygate.Refund{
				ID: "rf_test_1", ChargeID: "ch_test_1", Status: paygate.ChargeRefunded,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *gatewayStub) client() *paygate.Client {
	return paygate.NewWithConfig(g.srv.URL, "test-key")
}

func seedCheckout(t *testing.T, db *gorm.DB, stock, qty int) (models.User, models.Product) {
	t.Helper()

	user := models.User{Name: "Asha", Email: "asha@shopline.test", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	product := models.Product{Name: "Mug", SKU: "MUG-1", Price: 1500, Stock: stock}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	cart := models.Cart{UserID: &user.ID, Items: []models.CartItem{
		{ProductID: product.ID, Quantity: qty},
	}}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return user, product
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return p.Stock
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)

	user := models.User{Name: "Asha", Email: "asha@shopline.test", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewOrderService()
	svc.gateway = g.client()

	// No cart at all.
	if _, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card"); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("checkout without cart: got %v, want ErrEmptyCart", err)
	}

	// A cart with zero lines.
	if err := db.Create(&models.Cart{UserID: &user.ID}).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card"); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("checkout with empty cart: got %v, want ErrEmptyCart", err)
	}

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("empty-cart checkout created %d orders", orders)
	}
}

func TestCheckoutDecrementsStockAndClearsCart(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, product := seedCheckout(t, db, 5, 2)

	svc := NewOrderService()
	svc.gateway = g.client()

	order, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Status != models.OrderPending {
		t.Errorf("order status: got %s, want PENDING", order.Status)
	}
	if order.Total != 3000 {
		t.Errorf("order total: got %d, want 3000", order.Total)
	}
	if got := productStock(t, db, product.ID); got != 3 {
		t.Errorf("stock after checkout: got %d, want 3", got)
	}
	if order.Payment == nil || order.Payment.Status != models.PaymentPending {
		t.Errorf("expected a PENDING payment on the order, got %+v", order.Payment)
	}
	if order.Payment.GatewayChargeID != "ch_test_1" {
		t.Errorf("charge ID: got %q", order.Payment.GatewayChargeID)
	}

	var lines int64
	db.Model(&models.CartItem{}).Count(&lines)
	if lines != 0 {
		t.Errorf("cart still holds %d lines after checkout", lines)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, product := seedCheckout(t, db, 1, 2)

	svc := NewOrderService()
	svc.gateway = g.client()

	_, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	if got := productStock(t, db, product.ID); got != 1 {
		t.Errorf("stock touched by failed checkout: got %d, want 1", got)
	}
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("failed checkout left %d orders behind", orders)
	}
	if g.refunds.Load() != 0 {
		t.Errorf("no charge was opened, yet %d refunds issued", g.refunds.Load())
	}
}

func TestCheckoutRefundsChargeWhenPaymentCannotBeRecorded(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, product := seedCheckout(t, db, 5, 2)

	// A PENDING payment planted on the order-to-be makes the payment insert
	// fail after the gateway charge has already succeeded.
	if err := db.Create(&models.Payment{
		OrderID: 1, Status: models.PaymentPending, Amount: 3000, GatewayChargeID: "ch_stale",
	}).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewOrderService()
	svc.gateway = g.client()

	_, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if !errors.Is(err, ErrPaymentInFlight) {
		t.Fatalf("got %v, want ErrPaymentInFlight", err)
	}

	// The live charge must have been paid back.
	if g.refunds.Load() != 1 {
		t.Errorf("refunds issued: got %d, want 1", g.refunds.Load())
	}

	// And the order undone with its stock restored.
	var order models.Order
	if err := db.First(&order, 1).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != models.OrderCancelled {
		t.Errorf("order status: got %s, want CANCELLED", order.Status)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Errorf("stock after rollback: got %d, want 5", got)
	}
}

func TestCancellationRestoresStock(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, product := seedCheckout(t, db, 5, 2)

	svc := NewOrderService()
	svc.gateway = g.client()

	order, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 3 {
		t.Fatalf("stock after checkout: got %d, want 3", got)
	}

	cancelled, err := svc.CancelOwn(context.Background(), order.ID, user.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.OrderCancelled {
		t.Errorf("status: got %s, want CANCELLED", cancelled.Status)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Errorf("stock after cancellation: got %d, want 5", got)
	}
	if g.refunds.Load() != 0 {
		t.Errorf("PENDING payment needs no refund, yet %d issued", g.refunds.Load())
	}
}

func TestCustomerCannotCancelShippedOrder(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, _ := seedCheckout(t, db, 5, 2)

	svc := NewOrderService()
	svc.gateway = g.client()

	order, err := svc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderShipped).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CancelOwn(context.Background(), order.ID, user.ID); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("cancelling a SHIPPED order: got %v, want ErrNotCancellable", err)
	}
}

func succeededEvent() *paygate.Event {
	data, _ := json.Marshal(paygate.Charge{ID: "ch_test_1", Status: paygate.ChargeSucceeded})
	return &paygate.Event{ID: "evt_1", Type: paygate.EventChargeSucceeded, Data: data}
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, _ := seedCheckout(t, db, 5, 2)

	orderSvc := NewOrderService()
	orderSvc.gateway = g.client()
	order, err := orderSvc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	paySvc := NewPaymentService()
	paySvc.gateway = g.client()
	charge := paygate.Charge{ID: "ch_test_1", Status: paygate.ChargeSucceeded}

	if err := paySvc.HandleWebhook(context.Background(), succeededEvent(), charge); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	reloaded, err := orderSvc.orders.FindByID(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.OrderProcessing {
		t.Errorf("order after success webhook: got %s, want PROCESSING", reloaded.Status)
	}
	if reloaded.Payment.Status != models.PaymentSucceeded {
		t.Errorf("payment after success webhook: got %s, want SUCCEEDED", reloaded.Payment.Status)
	}

	// Gateways redeliver; the replay must change nothing and return no error.
	if err := paySvc.HandleWebhook(context.Background(), succeededEvent(), charge); err != nil {
		t.Fatalf("replayed delivery: %v", err)
	}
	replayed, err := orderSvc.orders.FindByID(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if replayed.Status != models.OrderProcessing || replayed.Payment.Status != models.PaymentSucceeded {
		t.Errorf("replay changed state: order %s, payment %s", replayed.Status, replayed.Payment.Status)
	}
}

func TestWebhookUnknownCharge(t *testing.T) {
	openTestDB(t)
	g := newGatewayStub(t)

	paySvc := NewPaymentService()
	paySvc.gateway = g.client()

	err := paySvc.HandleWebhook(context.Background(), succeededEvent(), paygate.Charge{ID: "ch_test_1"})
	if !errors.Is(err, ErrUnknownCharge) {
		t.Errorf("got %v, want ErrUnknownCharge", err)
	}
}

func TestWebhookSuccessAfterCancellationRefunds(t *testing.T) {
	db := openTestDB(t)
	g := newGatewayStub(t)
	user, product := seedCheckout(t, db, 5, 2)

	orderSvc := NewOrderService()
	orderSvc.gateway = g.client()
	order, err := orderSvc.Checkout(context.Background(), user.ID, "12 Hill Road, Pune", "pm_card")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// The nightly stale-order sweep cancels the still-PENDING order before
	// the gateway reports the charge succeeded.
	if _, err := orderSvc.ChangeStatus(context.Background(), order.ID, models.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := productStock(t, db, product.ID); got != 5 {
		t.Fatalf("stock after cancel: got %d, want 5", got)
	}

	paySvc := NewPaymentService()
	paySvc.gateway = g.client()
	charge := paygate.Charge{ID: "ch_test_1", Status: paygate.ChargeSucceeded}
	if err := paySvc.HandleWebhook(context.Background(), succeededEvent(), charge); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	if g.refunds.Load() != 1 {
		t.Errorf("refunds issued: got %d, want 1", g.refunds.Load())
	}
	reloaded, err := orderSvc.orders.FindByID(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != models.OrderCancelled {
		t.Errorf("cancelled order resurrected: got %s", reloaded.Status)
	}
	if reloaded.Payment.Status != models.PaymentRefunded {
		t.Errorf("payment on cancelled order: got %s, want REFUNDED", reloaded.Payment.Status)
	}
}

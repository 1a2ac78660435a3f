package models_test

import (
	"testing"

	"github.com/nikhilverma/shopline/app/models"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderPending, models.OrderProcessing, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderProcessing, models.OrderCancelled, true},
		{models.OrderProcessing, models.OrderPending, false},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderProcessing, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderCancelled, models.OrderProcessing, false},
	}

	for _, c := range cases {
		o := models.Order{Status: c.from}
		if got := o.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestOrderIsTerminal(t *testing.T) {
	terminal := map[string]bool{
		models.OrderPending:    false,
		models.OrderProcessing: false,
		models.OrderShipped:    false,
		models.OrderDelivered:  true,
		models.OrderCancelled:  true,
	}
	for status, want := range terminal {
		o := models.Order{Status: status}
		if got := o.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s): got %v, want %v", status, got, want)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		models.OrderPending, models.OrderProcessing, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled,
	} {
		if !models.ValidOrderStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "UNKNOWN", "REFUNDED"} {
		if models.ValidOrderStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.PaymentPending, models.PaymentSucceeded, true},
		{models.PaymentPending, models.PaymentFailed, true},
		{models.PaymentPending, models.PaymentRefunded, false},
		{models.PaymentSucceeded, models.PaymentRefunded, true},
		{models.PaymentSucceeded, models.PaymentFailed, false},
		{models.PaymentFailed, models.PaymentSucceeded, false},
		{models.PaymentRefunded, models.PaymentSucceeded, false},
	}

	for _, c := range cases {
		p := models.Payment{Status: c.from}
		if got := p.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := models.OrderItem{Price: 1999, Quantity: 3}
	if got := item.Subtotal(); got != 5997 {
		t.Errorf("Subtotal: got %d, want 5997", got)
	}
}

func TestCartItemSubtotal(t *testing.T) {
	item := models.CartItem{Quantity: 2}
	if got := item.Subtotal(); got != 0 {
		t.Errorf("Subtotal without product: got %d, want 0", got)
	}

	item.Product = &models.Product{Price: 2500}
	if got := item.Subtotal(); got != 5000 {
		t.Errorf("Subtotal: got %d, want 5000", got)
	}
}

package services

import (
	"testing"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/paygate"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Home & Kitchen":     "home-kitchen",
		"Electronics":        "electronics",
		"  Books  ":          "books",
		"USB-C Charger 65W":  "usb-c-charger-65w",
		"---":                "",
		"Déjà Vu":            "d-j-vu",
		"Already-Slugged":    "already-slugged",
		"MiXeD CaSe   Runs!": "mixed-case-runs",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestPaymentStatusFor(t *testing.T) {
	cases := []struct {
		event  string
		status string
		ok     bool
	}{
		{paygate.EventChargeSucceeded, models.PaymentSucceeded, true},
		{paygate.EventChargeFailed, models.PaymentFailed, true},
		{paygate.EventChargeRefunded, models.PaymentRefunded, true},
		{"charge.disputed", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		status, ok := paymentStatusFor(c.event)
		if status != c.status || ok != c.ok {
			t.Errorf("paymentStatusFor(%q): got (%q, %v), want (%q, %v)", c.event, status, ok, c.status, c.ok)
		}
	}
}

func TestCartTotal(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{Quantity: 2, Product: &models.Product{Price: 1000}},
		{Quantity: 1, Product: &models.Product{Price: 499}},
		{Quantity: 3}, // product not loaded, contributes nothing
	}}
	if got := CartTotal(cart); got != 2499 {
		t.Errorf("CartTotal: got %d, want 2499", got)
	}

	if got := CartTotal(models.Cart{}); got != 0 {
		t.Errorf("CartTotal(empty): got %d, want 0", got)
	}
}

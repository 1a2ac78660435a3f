package jobs

import (
	"fmt"
	"strings"

	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/mail"
)

// OrderConfirmationJob emails the customer after checkout.
type OrderConfirmationJob struct {
	OrderID uint `json:"order_id"`
}

func (j OrderConfirmationJob) Handle() error {
	orders := repositories.NewOrderRepository()
	users := repositories.NewUserRepository()

	order, err := orders.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("order confirmation: load order %d: %w", j.OrderID, err)
	}
	user, err := users.FindByID(order.UserID)
	if err != nil {
		return fmt.Errorf("order confirmation: load user %d: %w", order.UserID, err)
	}

	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "<li>%s × %d — %s</li>", item.Name, item.Quantity, money(item.Subtotal()))
	}

	body := fmt.Sprintf(
		"<h1>Thanks for your order, %s!</h1>"+
			"<p>Order #%d is confirmed and will ship once payment clears.</p>"+
			"<ul>%s</ul><p>Total: <strong>%s</strong></p>",
		user.Name, order.ID, lines.String(), money(order.Total))

	return mail.To(user.Email).
		Subject(fmt.Sprintf("Shopline order #%d confirmed", order.ID)).
		Body(body).
		Send()
}

// money renders minor units as a dollar string.
func money(minor int64) string {
	return fmt.Sprintf("$%d.%02d", minor/100, minor%100)
}
